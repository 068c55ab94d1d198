// Package testutil 测试用的内存数据库与种子数据
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// DB 每个测试独立的内存 SQLite，已完成迁移
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库随最后一个连接关闭而销毁
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Name: strings.Split(email, "@")[0], Email: email, Password: "x", Role: role}
	if err := db.Omit("InstructorProfile").Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedInstructor 创建讲师用户及其资料
func SeedInstructor(t *testing.T, db *gorm.DB, email string) (*model.User, *model.InstructorProfile) {
	t.Helper()
	u := SeedUser(t, db, email, model.Instructor)
	p := &model.InstructorProfile{UserID: u.ID}
	if err := db.Omit("User").Create(p).Error; err != nil {
		t.Fatalf("seed instructor: %v", err)
	}
	return u, p
}

func SeedCourse(t *testing.T, db *gorm.DB, instructorID uint, title string, price string) *model.Course {
	t.Helper()
	var cat model.Category
	if err := db.Order("id asc").First(&cat).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	c := &model.Course{
		Title:        title,
		Price:        decimal.RequireFromString(price),
		CategoryID:   cat.ID,
		InstructorID: instructorID,
	}
	if err := db.Omit("Category", "Instructor", "Lectures").Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedLecture(t *testing.T, db *gorm.DB, courseID uint, title string, order int, preview bool) *model.Lecture {
	t.Helper()
	l := &model.Lecture{CourseID: courseID, Title: title, Order: order, IsPreview: preview}
	if err := db.Omit("Course").Create(l).Error; err != nil {
		t.Fatalf("seed lecture: %v", err)
	}
	return l
}

func SeedEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint, amount string) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{
		UserID:        userID,
		CourseID:      courseID,
		PaymentStatus: "paid",
		AmountPaid:    decimal.RequireFromString(amount),
		EnrolledAt:    time.Now(),
	}
	if err := db.Omit("User", "Course").Create(e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// NewQuiz 构造 questions×options 的测验，每题第一个选项为正确答案
func NewQuiz(courseID uint, title string, order, questions, options int) *model.Quiz {
	q := &model.Quiz{CourseID: courseID, Title: title, Order: order, PassingScore: 70}
	for i := 0; i < questions; i++ {
		question := model.QuizQuestion{Text: fmt.Sprintf("Q%d", i+1), Position: i}
		for j := 0; j < options; j++ {
			question.Options = append(question.Options, model.QuizOption{
				Text:      fmt.Sprintf("Q%d-O%d", i+1, j+1),
				IsCorrect: j == 0,
				Position:  j,
			})
		}
		q.Questions = append(q.Questions, question)
	}
	return q
}
