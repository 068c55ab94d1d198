package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Review, error) {
	list := make([]model.Review, 0)
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, err
}

func (r *ReviewRepository) List(ctx context.Context) ([]model.Review, error) {
	list := make([]model.Review, 0)
	err := r.DB.WithContext(ctx).
		Preload("User").
		Order("created_at desc, id desc").
		Find(&list).Error
	return list, err
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Create 写评价并在同一事务里刷新课程均分；重复评价返回 gorm.ErrDuplicatedKey
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Review{}).
			Where("course_id = ? AND user_id = ?", review.CourseID, review.UserID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		if err := tx.Omit("User", "Course").Create(review).Error; err != nil {
			return err
		}
		return refreshCourseRating(tx, review.CourseID)
	})
}

func (r *ReviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(review).Select("rating", "comment").Updates(review).Error; err != nil {
			return err
		}
		return refreshCourseRating(tx, review.CourseID)
	})
}

func (r *ReviewRepository) Delete(ctx context.Context, review *model.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Review{}, review.ID).Error; err != nil {
			return err
		}
		return refreshCourseRating(tx, review.CourseID)
	})
}

func refreshCourseRating(tx *gorm.DB, courseID uint) error {
	var row struct {
		Avg *float64
	}
	if err := tx.Model(&model.Review{}).
		Select("AVG(rating) AS avg").
		Where("course_id = ?", courseID).
		Scan(&row).Error; err != nil {
		return err
	}
	return tx.Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("average_rating", row.Avg).Error
}
