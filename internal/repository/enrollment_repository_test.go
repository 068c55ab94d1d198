package repository

import (
	"context"
	"testing"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnrollmentRepository_DuplicateRejected(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewEnrollmentRepository(db)

	student := testutil.SeedUser(t, db, "dup@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, db, "dup-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "20.00")

	newEnrollment := func() *model.Enrollment {
		return &model.Enrollment{
			UserID:        student.ID,
			CourseID:      course.ID,
			PaymentStatus: "paid",
			AmountPaid:    decimal.RequireFromString("20.00"),
			EnrolledAt:    time.Now(),
		}
	}

	require.NoError(t, repo.Create(ctx, newEnrollment()))
	assert.ErrorIs(t, repo.Create(ctx, newEnrollment()), gorm.ErrDuplicatedKey)

	// 绕过预检查时由唯一索引兜底
	err := db.Omit("User", "Course").Create(newEnrollment()).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	ok, err := repo.Exists(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnrollmentRepository_InstructorStats(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewEnrollmentRepository(db)

	_, inst := testutil.SeedInstructor(t, db, "stats-inst@example.com")
	_, otherInst := testutil.SeedInstructor(t, db, "stats-other@example.com")
	c1 := testutil.SeedCourse(t, db, inst.ID, "A", "10.00")
	c2 := testutil.SeedCourse(t, db, inst.ID, "B", "15.50")
	c3 := testutil.SeedCourse(t, db, otherInst.ID, "C", "99.00")

	s1 := testutil.SeedUser(t, db, "s1@example.com", model.Student)
	s2 := testutil.SeedUser(t, db, "s2@example.com", model.Student)

	testutil.SeedEnrollment(t, db, s1.ID, c1.ID, "10.00")
	testutil.SeedEnrollment(t, db, s1.ID, c2.ID, "15.50")
	testutil.SeedEnrollment(t, db, s2.ID, c1.ID, "10.00")
	testutil.SeedEnrollment(t, db, s2.ID, c3.ID, "99.00")

	stats, err := repo.InstructorStats(ctx, inst.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.EnrollmentCount)
	assert.EqualValues(t, 2, stats.UniqueStudents)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("35.50")), stats.TotalRevenue.String())

	list, err := repo.ListByInstructor(ctx, inst.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	empty, err := repo.InstructorStats(ctx, 9999)
	require.NoError(t, err)
	assert.Zero(t, empty.EnrollmentCount)
	assert.True(t, empty.TotalRevenue.IsZero())
}

func TestEnrollmentRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewEnrollmentRepository(db)

	student := testutil.SeedUser(t, db, "upd@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, db, "upd-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "20.00")
	e := testutil.SeedEnrollment(t, db, student.ID, course.ID, "0")

	updated, err := repo.UpdatePayment(ctx, e.ID, "refunded", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "refunded", updated.PaymentStatus)

	reloaded, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", reloaded.PaymentStatus)
	require.NotNil(t, reloaded.Course)
	assert.Equal(t, "Go", reloaded.Course.Title)

	require.NoError(t, repo.Delete(ctx, e.ID))
	assert.ErrorIs(t, repo.Delete(ctx, e.ID), gorm.ErrRecordNotFound)

	_, err = repo.UpdatePayment(ctx, e.ID, "paid", decimal.Zero)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
