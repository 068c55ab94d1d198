package repository

import (
	"context"
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCourseRepository_FindByIDOrdersLectures(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepository(db)

	_, inst := testutil.SeedInstructor(t, db, "lectures@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "12.50")
	testutil.SeedLecture(t, db, course.ID, "Third", 3, false)
	testutil.SeedLecture(t, db, course.ID, "First", 1, true)
	testutil.SeedLecture(t, db, course.ID, "Second", 2, false)

	got, err := repo.FindByID(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Lectures, 3)
	assert.Equal(t, "First", got.Lectures[0].Title)
	assert.Equal(t, "Second", got.Lectures[1].Title)
	assert.Equal(t, "Third", got.Lectures[2].Title)
	require.NotNil(t, got.Category)
	require.NotNil(t, got.Instructor)
	require.NotNil(t, got.Instructor.User)
	assert.Equal(t, "lectures@example.com", got.Instructor.User.Email)
	assert.Equal(t, "12.5", got.Price.String())
}

func TestCourseRepository_ListFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepository(db)

	_, inst := testutil.SeedInstructor(t, db, "list@example.com")
	testutil.SeedCourse(t, db, inst.ID, "Go Basics", "0")
	testutil.SeedCourse(t, db, inst.ID, "Advanced Go", "0")
	testutil.SeedCourse(t, db, inst.ID, "Rust", "0")

	all, total, err := repo.List(ctx, CourseFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	found, total, err := repo.List(ctx, CourseFilter{Search: "Go"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	page, total, err := repo.List(ctx, CourseFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)

	none, total, err := repo.List(ctx, CourseFilter{CategoryID: 9999})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestCourseRepository_DeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepository(db)
	quizzes := NewQuizRepository(db)

	student := testutil.SeedUser(t, db, "cascade@example.com", model.Student)
	_, inst := testutil.SeedInstructor(t, db, "cascade-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Doomed", "0")
	keep := testutil.SeedCourse(t, db, inst.ID, "Kept", "0")

	lecture := testutil.SeedLecture(t, db, course.ID, "L1", 1, false)
	keptLecture := testutil.SeedLecture(t, db, keep.ID, "K1", 1, false)
	require.NoError(t, db.Create(&model.Note{UserID: student.ID, LectureID: lecture.ID, Content: "x"}).Error)
	require.NoError(t, db.Create(&model.Note{UserID: student.ID, LectureID: keptLecture.ID, Content: "y"}).Error)
	require.NoError(t, quizzes.Create(ctx, testutil.NewQuiz(course.ID, "Q", 1, 3, 2)))
	testutil.SeedEnrollment(t, db, student.ID, course.ID, "0")
	require.NoError(t, db.Omit("User", "Course").Create(&model.Review{CourseID: course.ID, UserID: student.ID, Rating: 4}).Error)

	require.NoError(t, repo.Delete(ctx, course.ID))

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&model.Lecture{}))
	assert.EqualValues(t, 1, count(&model.Note{}))
	assert.EqualValues(t, 0, count(&model.Quiz{}))
	assert.EqualValues(t, 0, count(&model.QuizQuestion{}))
	assert.EqualValues(t, 0, count(&model.QuizOption{}))
	assert.EqualValues(t, 0, count(&model.Enrollment{}))
	assert.EqualValues(t, 0, count(&model.Review{}))

	_, err := repo.FindBrief(ctx, course.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, course.ID), gorm.ErrRecordNotFound)
}

func TestCourseRepository_RecomputeAllRatings(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepository(db)

	_, inst := testutil.SeedInstructor(t, db, "ratings@example.com")
	rated := testutil.SeedCourse(t, db, inst.ID, "Rated", "0")
	unrated := testutil.SeedCourse(t, db, inst.ID, "Unrated", "0")

	for i, rating := range []int{5, 4} {
		require.NoError(t, db.Omit("User", "Course").Create(&model.Review{
			CourseID: rated.ID,
			UserID:   uint(100 + i),
			Rating:   rating,
		}).Error)
	}

	n, err := repo.RecomputeAllRatings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := repo.FindBrief(ctx, rated.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageRating)
	assert.InDelta(t, 4.5, *got.AverageRating, 0.001)

	got, err = repo.FindBrief(ctx, unrated.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AverageRating)
}
