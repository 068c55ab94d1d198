package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Create 已存在同一 (user, course) 时返回 gorm.ErrDuplicatedKey；
// 并发插入由唯一索引兜底，驱动错误经 TranslateError 也转换为同一个错误
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Enrollment{}).
			Where("user_id = ? AND course_id = ?", e.UserID, e.CourseID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Omit("User", "Course").Create(e).Error
	})
}

func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := r.DB.WithContext(ctx).Preload("Course").Preload("User").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	list := make([]model.Enrollment, 0)
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Preload("User").
		Order("enrolled_at desc, id desc").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	list := make([]model.Enrollment, 0)
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at desc, id desc").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]model.Enrollment, error) {
	list := make([]model.Enrollment, 0)
	err := r.DB.WithContext(ctx).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Preload("Course").
		Preload("User").
		Order("enrollments.enrolled_at desc, enrollments.id desc").
		Find(&list).Error
	return list, err
}

func (r *EnrollmentRepository) InstructorStats(ctx context.Context, instructorID uint) (*model.InstructorStats, error) {
	var row struct {
		EnrollmentCount int64
		UniqueStudents  int64
		TotalRevenue    decimal.Decimal
	}
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("COUNT(*) AS enrollment_count, " +
			"COUNT(DISTINCT enrollments.user_id) AS unique_students, " +
			"COALESCE(SUM(enrollments.amount_paid), 0) AS total_revenue").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &model.InstructorStats{
		InstructorID:    instructorID,
		EnrollmentCount: row.EnrollmentCount,
		UniqueStudents:  row.UniqueStudents,
		TotalRevenue:    row.TotalRevenue,
	}, nil
}

func (r *EnrollmentRepository) UpdatePayment(ctx context.Context, id uint, status string, amount decimal.Decimal) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		e.PaymentStatus = status
		e.AmountPaid = amount
		return tx.Model(&e).Select("payment_status", "amount_paid").Updates(&e).Error
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Enrollment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
