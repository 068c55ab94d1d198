package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "controller-secret"

type fixture struct {
	db     *gorm.DB
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)

	quizRepo := repository.NewQuizRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	access := service.NewAccessService(enrollRepo, courseRepo, instructorRepo, quizRepo)

	notes := NewNoteController(service.NewNoteService(repository.NewNoteRepository(db), repository.NewLectureRepository(db)))
	quizzes := NewQuizController(service.NewQuizService(quizRepo, service.NewQuizCache(nil, time.Minute), access))
	enrollments := NewEnrollmentController(service.NewEnrollmentService(enrollRepo, courseRepo, instructorRepo))
	ai := NewAIController(service.NewAIService(config.AIConfig{}))

	r := gin.New()
	r.POST("/api/ai/chat", ai.Chat)
	auth := r.Group("/api", middleware.AuthMiddleware(secret))
	auth.POST("/notes", notes.Save)
	auth.GET("/notes/lecture/:lectureId", notes.Get)
	auth.POST("/quizzes/:id/submit", quizzes.Submit)
	auth.POST("/enrollments", enrollments.Enroll)

	instructor := r.Group("/api/instructor", middleware.AuthMiddleware(secret), middleware.RoleMiddleware(model.Instructor))
	instructor.POST("/quizzes", quizzes.Create)
	instructor.GET("/quizzes/:id", quizzes.GetDetail)
	instructor.DELETE("/quizzes/:id", quizzes.Delete)

	users := NewUserController(service.NewUserService(repository.NewUserRepository(db)))
	instructors := NewInstructorController(service.NewInstructorService(instructorRepo), nil)
	reviews := NewReviewController(service.NewReviewService(repository.NewReviewRepository(db), courseRepo))
	r.GET("/api/reviews/:id", reviews.Get)
	admin := r.Group("/api/admin", middleware.AuthMiddleware(secret), middleware.RoleMiddleware(model.Admin))
	admin.GET("/users", users.List)
	admin.GET("/users/:id", users.Get)
	admin.POST("/instructors", instructors.Create)
	admin.DELETE("/instructors/:id", instructors.Delete)

	return &fixture{db: db, router: r}
}

func (f *fixture) call(t *testing.T, method, path string, user *model.User, body interface{}) (int, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := util.GenerateJWT(user, secret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestNoteSave_CreatedThenUpdated(t *testing.T) {
	f := newFixture(t)
	student := testutil.SeedUser(t, f.db, "ctl-note@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, f.db, "ctl-note-inst@example.com")
	course := testutil.SeedCourse(t, f.db, inst.ID, "Go", "0")
	lecture := testutil.SeedLecture(t, f.db, course.ID, "Intro", 1, false)

	code, _ := f.call(t, http.MethodPost, "/api/notes", nil, gin.H{"lectureId": lecture.ID, "content": "a"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.call(t, http.MethodPost, "/api/notes", student, gin.H{"lectureId": lecture.ID, "content": "a"})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = f.call(t, http.MethodPost, "/api/notes", student, gin.H{"lectureId": lecture.ID, "content": "b"})
	assert.Equal(t, http.StatusOK, code)

	code, resp := f.call(t, http.MethodGet, fmt.Sprintf("/api/notes/lecture/%d", lecture.ID), student, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "b", resp.Data.(map[string]interface{})["content"])

	code, _ = f.call(t, http.MethodPost, "/api/notes", student, gin.H{"lectureId": 9999, "content": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.call(t, http.MethodGet, "/api/notes/lecture/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestQuizSubmit_RequiresEnrollment(t *testing.T) {
	f := newFixture(t)
	student := testutil.SeedUser(t, f.db, "ctl-quiz@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, f.db, "ctl-quiz-inst@example.com")
	course := testutil.SeedCourse(t, f.db, inst.ID, "Go", "0")

	quiz := testutil.NewQuiz(course.ID, "Basics", 1, 2, 2)
	require.NoError(t, f.db.Create(quiz).Error)

	answers := gin.H{"answers": []gin.H{
		{"questionId": quiz.Questions[0].ID, "selectedOptionId": quiz.Questions[0].Options[0].ID},
		{"questionId": quiz.Questions[1].ID, "selectedOptionId": quiz.Questions[1].Options[1].ID},
	}}
	path := fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID)

	code, _ := f.call(t, http.MethodPost, path, student, answers)
	assert.Equal(t, http.StatusForbidden, code)

	testutil.SeedEnrollment(t, f.db, student.ID, course.ID, "0")

	code, resp := f.call(t, http.MethodPost, path, student, answers)
	require.Equal(t, http.StatusOK, code)
	data := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 50, data["score"])
	assert.Equal(t, false, data["passed"])

	code, _ = f.call(t, http.MethodPost, "/api/quizzes/9999/submit", student, answers)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestQuizAuthoring_StrangerInstructorForbidden(t *testing.T) {
	f := newFixture(t)
	ownerUser, owner := testutil.SeedInstructor(t, f.db, "ctl-owner@example.com")
	stranger, _ := testutil.SeedInstructor(t, f.db, "ctl-stranger@example.com")
	course := testutil.SeedCourse(t, f.db, owner.ID, "Owned", "0")

	questions := []gin.H{
		{"text": "1+1?", "options": []gin.H{{"text": "2", "isCorrect": true}, {"text": "3"}}},
	}
	body := gin.H{"courseId": course.ID, "title": "Checkpoint", "questions": questions}

	code, _ := f.call(t, http.MethodPost, "/api/instructor/quizzes", stranger, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := f.call(t, http.MethodPost, "/api/instructor/quizzes", ownerUser, body)
	require.Equal(t, http.StatusCreated, code)
	path := fmt.Sprintf("/api/instructor/quizzes/%v", resp.Data.(map[string]interface{})["id"])

	code, _ = f.call(t, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = f.call(t, http.MethodDelete, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = f.call(t, http.MethodGet, path, ownerUser, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Checkpoint", resp.Data.(map[string]interface{})["title"])

	body["courseId"] = 9999
	code, _ = f.call(t, http.MethodPost, "/api/instructor/quizzes", ownerUser, body)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.call(t, http.MethodDelete, path, ownerUser, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminUsersAndInstructors(t *testing.T) {
	f := newFixture(t)
	admin := testutil.SeedUser(t, f.db, "ctl-admin@example.com", model.Admin)
	student := testutil.SeedUser(t, f.db, "ctl-promote@example.com", model.Student)

	code, _ := f.call(t, http.MethodGet, "/api/admin/users", student, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := f.call(t, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data.([]interface{}), 2)

	code, resp = f.call(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d", student.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ctl-promote@example.com", resp.Data.(map[string]interface{})["email"])

	code, _ = f.call(t, http.MethodGet, "/api/admin/users/9999", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)

	body := gin.H{"userId": student.ID, "bio": "Now teaching"}
	code, _ = f.call(t, http.MethodPost, "/api/admin/instructors", student, body)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = f.call(t, http.MethodPost, "/api/admin/instructors", admin, body)
	require.Equal(t, http.StatusCreated, code)
	profileID := resp.Data.(map[string]interface{})["id"]

	code, _ = f.call(t, http.MethodPost, "/api/admin/instructors", admin, body)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = f.call(t, http.MethodDelete, fmt.Sprintf("/api/admin/instructors/%v", profileID), admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.call(t, http.MethodGet, "/api/reviews/9999", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEnroll_Conflict(t *testing.T) {
	f := newFixture(t)
	student := testutil.SeedUser(t, f.db, "ctl-enroll@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, f.db, "ctl-enroll-inst@example.com")
	course := testutil.SeedCourse(t, f.db, inst.ID, "Go", "10")

	body := gin.H{"courseId": course.ID, "amountPaid": "10", "paymentStatus": "paid"}
	code, _ := f.call(t, http.MethodPost, "/api/enrollments", student, body)
	assert.Equal(t, http.StatusCreated, code)

	code, _ = f.call(t, http.MethodPost, "/api/enrollments", student, body)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAIChat_WithoutKey(t *testing.T) {
	f := newFixture(t)

	code, resp := f.call(t, http.MethodPost, "/api/ai/chat", nil, gin.H{"message": "hi"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.AIConfigHint, resp.Data.(map[string]interface{})["reply"])

	code, _ = f.call(t, http.MethodPost, "/api/ai/chat", nil, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthCheck_CacheDisabled(t *testing.T) {
	f := newFixture(t)
	f.router.GET("/api/health", NewHealthController(f.db, nil).HealthCheck)

	code, resp := f.call(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, code)
	components := resp.Data.(map[string]interface{})["components"].(map[string]interface{})
	assert.Equal(t, "up", components["database"])
	assert.Equal(t, "disabled", components["cache"])
}
