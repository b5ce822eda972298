package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/student-management-api/internal/models"
)

// ErrUnsupportedSort is returned when a page asks for an unknown sort field.
var ErrUnsupportedSort = errors.New("unsupported sort field")

// StudentRepository translates typed student queries into store operations.
// It carries no business rules; callers decide what to save.
type StudentRepository interface {
	FindByID(ctx context.Context, id int64) (models.Student, error)
	ListActive(ctx context.Context, page models.Pageable) ([]models.Student, int64, error)
	SearchByKeyword(ctx context.Context, keyword string, page models.Pageable) ([]models.Student, int64, error)
	SearchByName(ctx context.Context, name string, page models.Pageable) ([]models.Student, int64, error)
	SearchByPhone(ctx context.Context, phone string, page models.Pageable) ([]models.Student, int64, error)
	Save(ctx context.Context, student models.Student) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

type condition struct {
	query string
	args  []interface{}
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindByID(ctx context.Context, id int64) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListActive(ctx context.Context, page models.Pageable) ([]models.Student, int64, error) {
	return r.activePage(ctx, page)
}

func (r *studentRepository) SearchByKeyword(ctx context.Context, keyword string, page models.Pageable) ([]models.Student, int64, error) {
	return r.activePage(ctx, page, r.keywordCondition(keyword))
}

func (r *studentRepository) SearchByName(ctx context.Context, name string, page models.Pageable) ([]models.Student, int64, error) {
	return r.activePage(ctx, page, r.containsCondition("name", name))
}

func (r *studentRepository) SearchByPhone(ctx context.Context, phone string, page models.Pageable) ([]models.Student, int64, error) {
	return r.activePage(ctx, page, r.containsCondition("phone", phone))
}

func (r *studentRepository) Save(ctx context.Context, student models.Student) (models.Student, error) {
	if err := r.db.WithContext(ctx).Save(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) activePage(ctx context.Context, page models.Pageable, conditions ...condition) ([]models.Student, int64, error) {
	column := "id"
	if page.SortField != "" {
		resolved, ok := models.StudentSortColumn(page.SortField)
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedSort, page.SortField)
		}
		column = resolved
	}

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Student{}).
			Where("is_delete = ?", models.StudentActive)
		for _, cond := range conditions {
			query = query.Where(cond.query, cond.args...)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scoped().Order(clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   page.SortDescending,
	})
	if column != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	if page.Size > 0 {
		query = query.Limit(page.Size).Offset(page.Offset())
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) keywordCondition(keyword string) condition {
	like := containsPattern(keyword)
	op := r.likeOperator()
	return condition{
		query: fmt.Sprintf("(name %[1]s ? ESCAPE '!' OR phone %[1]s ? ESCAPE '!' OR email %[1]s ? ESCAPE '!')", op),
		args:  []interface{}{like, like, like},
	}
}

func (r *studentRepository) containsCondition(column, value string) condition {
	return condition{
		query: fmt.Sprintf("%s %s ? ESCAPE '!'", column, r.likeOperator()),
		args:  []interface{}{containsPattern(value)},
	}
}

// likeOperator returns a case-sensitive LIKE for the connected dialect. MySQL
// compares with the column collation, which is case-insensitive by default.
func (r *studentRepository) likeOperator() string {
	if r.db.Dialector != nil && r.db.Dialector.Name() == "mysql" {
		return "LIKE BINARY"
	}
	return "LIKE"
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching value as a literal substring.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
