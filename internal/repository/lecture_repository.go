package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Lecture, error) {
	var lectures []model.Lecture
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("display_order asc, id asc").
		Find(&lectures).Error
	return lectures, err
}

// List 全部课时，按课程分组排列
func (r *LectureRepository) List(ctx context.Context) ([]model.Lecture, error) {
	lectures := make([]model.Lecture, 0)
	err := r.DB.WithContext(ctx).
		Order("course_id asc, display_order asc, id asc").
		Find(&lectures).Error
	return lectures, err
}

// FindByID 附带所属课程，便于判断讲师归属
func (r *LectureRepository) FindByID(ctx context.Context, id uint) (*model.Lecture, error) {
	var lecture model.Lecture
	if err := r.DB.WithContext(ctx).Preload("Course").First(&lecture, id).Error; err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) Create(ctx context.Context, lecture *model.Lecture) error {
	return r.DB.WithContext(ctx).Omit("Course").Create(lecture).Error
}

func (r *LectureRepository) Update(ctx context.Context, lecture *model.Lecture) error {
	return r.DB.WithContext(ctx).Omit("Course").Save(lecture).Error
}

func (r *LectureRepository) UpdateVideo(ctx context.Context, id uint, url string, duration float64) error {
	return r.DB.WithContext(ctx).Model(&model.Lecture{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_url":        url,
			"duration_seconds": duration,
		}).Error
}

func (r *LectureRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lecture_id = ?", id).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Lecture{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
