package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

type CourseFilter struct {
	CategoryID   uint
	InstructorID uint
	Search       string
	Page         int
	Limit        int
}

func orderedLectures(db *gorm.DB) *gorm.DB {
	return db.Order("display_order asc, id asc")
}

func (r *CourseRepository) List(ctx context.Context, f CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.Course{})
	if f.CategoryID > 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.InstructorID > 0 {
		query = query.Where("instructor_id = ?", f.InstructorID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("(title LIKE ? OR description LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	var courses []model.Course
	err := query.Preload("Category").
		Preload("Instructor.User").
		Order("created_at desc, id desc").
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Instructor.User").
		Preload("Lectures", orderedLectures).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindBrief 只取课程本行，用于权限判断
func (r *CourseRepository) FindBrief(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

func (r *CourseRepository) UpdateImage(ctx context.Context, id uint, url string) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Update("image_url", url).Error
}

// Delete 级联删除课时、笔记、测验聚合、选课与评价；作答记录保留
func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course model.Course
		if err := tx.Select("id").First(&course, id).Error; err != nil {
			return err
		}

		lectureIDs := tx.Model(&model.Lecture{}).Select("id").Where("course_id = ?", id)
		if err := tx.Where("lecture_id IN (?)", lectureIDs).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Lecture{}).Error; err != nil {
			return err
		}

		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("course_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		for _, quizID := range quizIDs {
			if err := deleteQuizTree(tx, quizID); err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

// RecomputeAllRatings 一条语句按评价表重算所有课程均分
func (r *CourseRepository) RecomputeAllRatings(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("1 = 1").
		Update("average_rating", gorm.Expr("(SELECT AVG(reviews.rating) FROM reviews WHERE reviews.course_id = courses.id)"))
	return res.RowsAffected, res.Error
}
