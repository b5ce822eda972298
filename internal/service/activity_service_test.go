package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-management-api/internal/dto"
	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = int64(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func dtoActivityRequest(studentID int64) dto.ActivityListRequest {
	return dto.ActivityListRequest{Page: 0, PageSize: 20, EntityType: "student", EntityID: &studentID}
}

func TestActivityServiceRecordMasksContactDetails(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, NewValidator(), testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "System",
		Action:     "Student.Updated",
		EntityType: "student",
		EntityID:   ptrInt64(5),
		Metadata: map[string]interface{}{
			"email": "student@example.com",
			"phone": "12345",
			"major": "CS",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "***", entry.Metadata["phone"])
	require.Equal(t, "CS", entry.Metadata["major"])
	require.Equal(t, "system", entry.ActorRole)
	require.Equal(t, "student.updated", entry.Action)
	require.Equal(t, int64(1), entry.ID)
}

func TestActivityServiceRecordRequiresActionAndEntity(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, nil, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "student"})
	require.Error(t, err)

	_, err = svc.Record(context.Background(), ActivityEntry{Action: "student.created"})
	require.Error(t, err)
}

func TestActivityServiceListValidatesPaging(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, nil, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, ActivityEntry{Action: "student.created", EntityType: "student"})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, dto.ActivityListRequest{Page: 0, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), list.Pagination.TotalItems)
	require.Equal(t, 2, list.Pagination.TotalPages)

	_, err = svc.List(ctx, dto.ActivityListRequest{Page: -1, PageSize: 2})
	require.Error(t, err)

	_, err = svc.List(ctx, dto.ActivityListRequest{Page: 0, PageSize: 0})
	require.Error(t, err)
}

func ptrInt64(v int64) *int64 {
	return &v
}
