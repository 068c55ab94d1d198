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

func TestReviewRepository_WritesRefreshAverage(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	courses := NewCourseRepository(db)

	_, inst := testutil.SeedInstructor(t, db, "review-inst@example.com")
	course := testutil.SeedCourse(t, db, inst.ID, "Go", "0")
	u1 := testutil.SeedUser(t, db, "r1@example.com", model.Student)
	u2 := testutil.SeedUser(t, db, "r2@example.com", model.Student)

	average := func() *float64 {
		c, err := courses.FindBrief(ctx, course.ID)
		require.NoError(t, err)
		return c.AverageRating
	}

	r1 := &model.Review{CourseID: course.ID, UserID: u1.ID, Rating: 5}
	require.NoError(t, repo.Create(ctx, r1))
	require.NotNil(t, average())
	assert.InDelta(t, 5.0, *average(), 0.001)

	r2 := &model.Review{CourseID: course.ID, UserID: u2.ID, Rating: 2}
	require.NoError(t, repo.Create(ctx, r2))
	assert.InDelta(t, 3.5, *average(), 0.001)

	assert.ErrorIs(t, repo.Create(ctx, &model.Review{CourseID: course.ID, UserID: u1.ID, Rating: 1}), gorm.ErrDuplicatedKey)

	r2.Rating = 4
	require.NoError(t, repo.Update(ctx, r2))
	assert.InDelta(t, 4.5, *average(), 0.001)

	require.NoError(t, repo.Delete(ctx, r1))
	assert.InDelta(t, 4.0, *average(), 0.001)

	require.NoError(t, repo.Delete(ctx, r2))
	assert.Nil(t, average())

	list, err := repo.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
