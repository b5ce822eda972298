package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/student-management-api/internal/dto"
	"github.com/noah-isme/student-management-api/internal/messaging"
	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/observability"
	"github.com/noah-isme/student-management-api/internal/repository"
)

var (
	// ErrStudentNotFound indicates no record exists for the requested id.
	ErrStudentNotFound = errors.New("student not found")
	// ErrUnsupportedSort indicates the requested sort field is not sortable.
	ErrUnsupportedSort = repository.ErrUnsupportedSort
)

// StudentEventPublisher publishes lifecycle events for student records.
type StudentEventPublisher interface {
	PublishStudentEvent(ctx context.Context, event messaging.StudentEvent) error
}

// StudentService applies the student lifecycle rules on top of the repository.
type StudentService interface {
	List(ctx context.Context, page models.Pageable) (dto.StudentPageResponse, error)
	Get(ctx context.Context, id int64) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id int64, req dto.StudentRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, keyword string, page models.Pageable) (dto.StudentPageResponse, error)
	SearchByName(ctx context.Context, name string, page models.Pageable) (dto.StudentPageResponse, error)
	SearchByPhone(ctx context.Context, phone string, page models.Pageable) (dto.StudentPageResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	cache     *studentPageCache
	events    StudentEventPublisher
	activity  ActivityRecorder
	validator *validator.Validate
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs the student service. cache, events and activity
// are optional; pass nil to disable them.
func NewStudentService(repo repository.StudentRepository, cache *redis.Client, cacheTTL time.Duration, events StudentEventPublisher, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	componentLogger := logger.With().Str("component", "student_service").Logger()

	return &studentService{
		repo:      repo,
		cache:     newStudentPageCache(cache, cacheTTL, componentLogger),
		events:    events,
		activity:  activity,
		validator: validate,
		tracer:    otel.Tracer("github.com/noah-isme/student-management-api/internal/service/student"),
		logger:    componentLogger,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}

func (s *studentService) List(ctx context.Context, page models.Pageable) (dto.StudentPageResponse, error) {
	return s.cachedPage(ctx, "list", "", page, func() ([]models.Student, int64, error) {
		return s.repo.ListActive(ctx, page)
	})
}

func (s *studentService) Get(ctx context.Context, id int64) (dto.StudentResponse, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentRequest) (dto.StudentResponse, error) {
	if err := ValidateStudent(s.validator, req); err != nil {
		return dto.StudentResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "student.create")
	defer span.End()

	now := s.now()
	student := models.Student{
		CreateTime: now,
		ModifyTime: now,
		IsDelete:   models.StudentActive,
		Creator:    models.DefaultCreatorID,
	}
	req.ApplyTo(&student)

	saved, err := s.repo.Save(spanCtx, student)
	if err != nil {
		recordSpanError(span, err)
		return dto.StudentResponse{}, err
	}
	span.SetAttributes(attribute.Int64("student.id", saved.ID))

	s.afterMutation(spanCtx, messaging.ActionCreated, saved)
	return dto.NewStudentResponse(saved), nil
}

func (s *studentService) Update(ctx context.Context, id int64, req dto.StudentRequest) (dto.StudentResponse, error) {
	if err := ValidateStudent(s.validator, req); err != nil {
		return dto.StudentResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "student.update", trace.WithAttributes(attribute.Int64("student.id", id)))
	defer span.End()

	existing, err := s.find(spanCtx, id)
	if err != nil {
		recordSpanError(span, err)
		return dto.StudentResponse{}, err
	}

	updated := existing
	req.ApplyTo(&updated)
	updated.ID = existing.ID
	updated.CreateTime = existing.CreateTime
	updated.IsDelete = existing.IsDelete
	updated.Creator = existing.Creator
	updated.ModifyTime = s.now()

	saved, err := s.repo.Save(spanCtx, updated)
	if err != nil {
		recordSpanError(span, err)
		return dto.StudentResponse{}, err
	}

	s.afterMutation(spanCtx, messaging.ActionUpdated, saved)
	return dto.NewStudentResponse(saved), nil
}

func (s *studentService) Delete(ctx context.Context, id int64) error {
	spanCtx, span := s.tracer.Start(ctx, "student.delete", trace.WithAttributes(attribute.Int64("student.id", id)))
	defer span.End()

	student, err := s.find(spanCtx, id)
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	student.IsDelete = models.StudentDeleted
	student.ModifyTime = s.now()

	saved, err := s.repo.Save(spanCtx, student)
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	s.afterMutation(spanCtx, messaging.ActionDeleted, saved)
	return nil
}

func (s *studentService) Search(ctx context.Context, keyword string, page models.Pageable) (dto.StudentPageResponse, error) {
	return s.cachedPage(ctx, "keyword", keyword, page, func() ([]models.Student, int64, error) {
		return s.repo.SearchByKeyword(ctx, keyword, page)
	})
}

func (s *studentService) SearchByName(ctx context.Context, name string, page models.Pageable) (dto.StudentPageResponse, error) {
	return s.cachedPage(ctx, "name", name, page, func() ([]models.Student, int64, error) {
		return s.repo.SearchByName(ctx, name, page)
	})
}

func (s *studentService) SearchByPhone(ctx context.Context, phone string, page models.Pageable) (dto.StudentPageResponse, error) {
	return s.cachedPage(ctx, "phone", phone, page, func() ([]models.Student, int64, error) {
		return s.repo.SearchByPhone(ctx, phone, page)
	})
}

func (s *studentService) find(ctx context.Context, id int64) (models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	return student, nil
}

func (s *studentService) cachedPage(ctx context.Context, scope, query string, page models.Pageable, load func() ([]models.Student, int64, error)) (dto.StudentPageResponse, error) {
	key, cacheable := s.cache.key(ctx, scope, query, page)
	if cacheable {
		if cached, ok := s.cache.get(ctx, key); ok {
			return cached, nil
		}
	}

	students, total, err := load()
	if err != nil {
		return dto.StudentPageResponse{}, err
	}

	response := dto.NewStudentPageResponse(students, total, page)
	if cacheable {
		s.cache.set(ctx, key, response)
	}
	return response, nil
}

// afterMutation runs the optional side effects of a committed change. None of
// them can fail the request.
func (s *studentService) afterMutation(ctx context.Context, action string, student models.Student) {
	observability.StudentMutations().WithLabelValues(action).Inc()

	s.cache.invalidate(ctx)

	if s.events != nil {
		event := messaging.StudentEvent{
			Action:     action,
			Student:    dto.NewStudentResponse(student),
			OccurredAt: s.now(),
		}
		if err := s.events.PublishStudentEvent(ctx, event); err != nil {
			s.logger.Warn().Err(err).Int64("student_id", student.ID).Str("action", action).Msg("failed to publish student event")
		}
	}

	if s.activity != nil {
		entityID := student.ID
		metadata := map[string]interface{}{
			"name":  student.Name,
			"major": student.Major,
		}
		if student.Email != nil {
			metadata["email"] = *student.Email
		}
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    models.DefaultCreatorID,
			ActorRole:  "system",
			Action:     "student." + action,
			EntityType: "student",
			EntityID:   &entityID,
			Metadata:   metadata,
		}); err != nil {
			s.logger.Warn().Err(err).Int64("student_id", student.ID).Str("action", action).Msg("failed to record student activity")
		}
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
