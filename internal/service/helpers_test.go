package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/student-management-api/internal/database"
	"github.com/noah-isme/student-management-api/internal/dto"
	"github.com/noah-isme/student-management-api/internal/messaging"
	"github.com/noah-isme/student-management-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func setupStudentDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// stepClock advances by one second on every reading.
type stepClock struct {
	mu      sync.Mutex
	current time.Time
}

func newStepClock() *stepClock {
	return &stepClock{current: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []messaging.StudentEvent
	err    error
}

func (p *recordingPublisher) PublishStudentEvent(ctx context.Context, event messaging.StudentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	actions := make([]string, 0, len(p.events))
	for _, event := range p.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type failingRecorder struct{}

func (failingRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	return dto.ActivityResponse{}, errors.New("audit store unavailable")
}

type studentServiceOptions struct {
	cache    *redis.Client
	events   StudentEventPublisher
	activity ActivityRecorder
}

func newTestStudentService(t *testing.T, db *gorm.DB, clock *stepClock, opts studentServiceOptions) *studentService {
	t.Helper()
	svc := NewStudentService(repository.NewStudentRepository(db), opts.cache, time.Minute, opts.events, opts.activity, NewValidator(), testLogger()).(*studentService)
	if clock != nil {
		svc.now = clock.Now
	}
	return svc
}

func intPtr(v int) *int {
	return &v
}

func validRequest(name string) dto.StudentRequest {
	return dto.StudentRequest{
		Name:   name,
		Gender: "F",
		Phone:  "12345",
		Age:    intPtr(20),
		Major:  "CS",
	}
}
