package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/noah-isme/student-management-api/internal/database"
	"github.com/noah-isme/student-management-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(value string) *string {
	return &value
}

func seedStudent(t *testing.T, repo StudentRepository, name, phone string, email *string, deleted bool) models.Student {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	student := models.Student{
		Name:       name,
		Gender:     "F",
		Phone:      phone,
		Age:        20,
		Major:      "CS",
		Email:      email,
		CreateTime: now,
		ModifyTime: now,
		Creator:    models.DefaultCreatorID,
	}
	if deleted {
		student.IsDelete = models.StudentDeleted
	}
	saved, err := repo.Save(context.Background(), student)
	require.NoError(t, err)
	return saved
}

func names(students []models.Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.Name)
	}
	return out
}

func TestStudentRepositorySaveAssignsIDAndReplaces(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	first := seedStudent(t, repo, "Alice", "555-0001", nil, false)
	second := seedStudent(t, repo, "Bob", "555-0002", nil, false)
	require.NotZero(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)

	first.Major = "Math"
	first.Remark = strPtr("transferred")
	updated, err := repo.Save(ctx, first)
	require.NoError(t, err)
	require.Equal(t, first.ID, updated.ID)

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Math", found.Major)
	require.Equal(t, "transferred", *found.Remark)
	require.True(t, first.CreateTime.Equal(found.CreateTime))
}

func TestStudentRepositoryFindByID(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))

	deleted := seedStudent(t, repo, "Ghost", "555-0404", nil, true)

	found, err := repo.FindByID(context.Background(), deleted.ID)
	require.NoError(t, err, "soft-deleted rows stay addressable by id")
	require.True(t, found.IsDeleted())

	_, err = repo.FindByID(context.Background(), deleted.ID+100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStudentRepositoryListActiveSortsAndPaginates(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	seedStudent(t, repo, "Carol", "555-0003", nil, false)
	seedStudent(t, repo, "Alice", "555-0001", nil, false)
	seedStudent(t, repo, "Bob", "555-0002", nil, false)
	seedStudent(t, repo, "Zed", "555-0026", nil, true)

	students, total, err := repo.ListActive(ctx, models.Pageable{Page: 0, Size: 10, SortField: "name", SortDescending: true})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, []string{"Carol", "Bob", "Alice"}, names(students))

	students, total, err = repo.ListActive(ctx, models.Pageable{Page: 1, Size: 2, SortField: "id"})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Equal(t, []string{"Bob"}, names(students))

	students, _, err = repo.ListActive(ctx, models.Pageable{Page: 5, Size: 2, SortField: "id"})
	require.NoError(t, err)
	require.Empty(t, students)
}

func TestStudentRepositoryListActiveBreaksTiesByID(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	a := seedStudent(t, repo, "Same", "555-0001", nil, false)
	b := seedStudent(t, repo, "Same", "555-0002", nil, false)

	students, _, err := repo.ListActive(ctx, models.Pageable{Size: 10, SortField: "name", SortDescending: true})
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, a.ID, students[0].ID)
	require.Equal(t, b.ID, students[1].ID)
}

func TestStudentRepositoryAcceptsColumnAndPropertySortKeys(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	seedStudent(t, repo, "Alice", "555-0001", nil, false)

	for _, key := range []string{"createTime", "create_time", "nativePlace", "modify_time"} {
		_, _, err := repo.ListActive(ctx, models.Pageable{Size: 10, SortField: key})
		require.NoError(t, err, key)
	}

	_, _, err := repo.ListActive(ctx, models.Pageable{Size: 10, SortField: "name; DROP TABLE students"})
	require.ErrorIs(t, err, ErrUnsupportedSort)
}

func TestStudentRepositorySearchByKeyword(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	seedStudent(t, repo, "Alice", "555-0001", strPtr("alice@x.com"), false)
	seedStudent(t, repo, "Bob", "555-0002", strPtr("bob@x.com"), false)
	seedStudent(t, repo, "Carol", "777-1234", nil, false)
	seedStudent(t, repo, "Alicia", "555-0009", nil, true)

	page := models.Pageable{Size: 10, SortField: "id"}

	students, total, err := repo.SearchByKeyword(ctx, "Ali", page)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, []string{"Alice"}, names(students))

	students, _, err = repo.SearchByKeyword(ctx, "bob@", page)
	require.NoError(t, err)
	require.Equal(t, []string{"Bob"}, names(students))

	students, _, err = repo.SearchByKeyword(ctx, "777", page)
	require.NoError(t, err)
	require.Equal(t, []string{"Carol"}, names(students))

	students, _, err = repo.SearchByKeyword(ctx, "ali", page)
	require.NoError(t, err)
	require.Equal(t, []string{"Alice"}, names(students), "matched through the lowercase email only")

	students, total, err = repo.SearchByKeyword(ctx, "", page)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, students, 3)
}

func TestStudentRepositorySearchTreatsWildcardsLiterally(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	seedStudent(t, repo, "100% Real", "555-0001", nil, false)
	seedStudent(t, repo, "1000 Fake", "555-0002", nil, false)
	seedStudent(t, repo, "snake_case", "555-0003", nil, false)
	seedStudent(t, repo, "snakeXcase", "555-0004", nil, false)

	page := models.Pageable{Size: 10, SortField: "id"}

	students, _, err := repo.SearchByName(ctx, "100%", page)
	require.NoError(t, err)
	require.Equal(t, []string{"100% Real"}, names(students))

	students, _, err = repo.SearchByKeyword(ctx, "e_c", page)
	require.NoError(t, err)
	require.Equal(t, []string{"snake_case"}, names(students))
}

func TestStudentRepositorySearchByNameAndPhone(t *testing.T) {
	repo := NewStudentRepository(setupTestDB(t))
	ctx := context.Background()

	seedStudent(t, repo, "Alice", "555-0001", nil, false)
	seedStudent(t, repo, "Malik", "555-0002", nil, false)
	seedStudent(t, repo, "Bob", "777-0003", nil, false)

	page := models.Pageable{Size: 10, SortField: "id"}

	students, total, err := repo.SearchByName(ctx, "li", page)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, []string{"Alice", "Malik"}, names(students))

	students, total, err = repo.SearchByPhone(ctx, "555", models.Pageable{Size: 1, SortField: "id"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total, "total counts matches beyond the page")
	require.Equal(t, []string{"Alice"}, names(students))
}

func TestStudentRepositoryUsesBinaryLikeOnMySQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/students?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	repo := &studentRepository{db: db}
	render := func(cond condition) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var students []models.Student
			return tx.Model(&models.Student{}).Where(cond.query, cond.args...).Find(&students)
		})
	}

	require.Contains(t, render(repo.containsCondition("name", "Ann")), "name LIKE BINARY '%Ann%' ESCAPE '!'")
	keyword := render(repo.keywordCondition("55"))
	require.Contains(t, keyword, "phone LIKE BINARY '%55%'")
	require.Contains(t, keyword, "email LIKE BINARY '%55%'")

	sqlite := &studentRepository{db: setupTestDB(t)}
	require.Equal(t, "LIKE", sqlite.likeOperator())
}
