package service

import (
	"testing"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	mr          *miniredis.Miniredis
	cache       *QuizCache
	quizRepo    *repository.QuizRepository
	access      *AccessService
	quizzes     *QuizService
	enrollments *EnrollmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	quizRepo := repository.NewQuizRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)

	access := NewAccessService(enrollRepo, courseRepo, instructorRepo, quizRepo)
	cache := NewQuizCache(rdb, 10*time.Minute)

	return &testEnv{
		db:          db,
		mr:          mr,
		cache:       cache,
		quizRepo:    quizRepo,
		access:      access,
		quizzes:     NewQuizService(quizRepo, cache, access),
		enrollments: NewEnrollmentService(enrollRepo, courseRepo, instructorRepo),
	}
}

// ownedCourse 创建讲师及其名下课程，返回讲师身份
func (e *testEnv) ownedCourse(t *testing.T, email string) (Viewer, *model.Course) {
	t.Helper()
	user, profile := testutil.SeedInstructor(t, e.db, email)
	course := testutil.SeedCourse(t, e.db, profile.ID, "Course of "+email, "10.00")
	return Viewer{UserID: user.ID, Role: model.Instructor}, course
}

func intPtr(v int) *int { return &v }
