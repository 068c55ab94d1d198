package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type InstructorRepository struct {
	DB *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) *InstructorRepository {
	return &InstructorRepository{DB: db}
}

func (r *InstructorRepository) List(ctx context.Context) ([]model.InstructorProfile, error) {
	var list []model.InstructorProfile
	err := r.DB.WithContext(ctx).Preload("User").Order("id asc").Find(&list).Error
	return list, err
}

func (r *InstructorRepository) FindByID(ctx context.Context, id uint) (*model.InstructorProfile, error) {
	var p model.InstructorProfile
	if err := r.DB.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InstructorRepository) FindByUserID(ctx context.Context, userID uint) (*model.InstructorProfile, error) {
	var p model.InstructorProfile
	if err := r.DB.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InstructorRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.InstructorProfile{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *InstructorRepository) Update(ctx context.Context, p *model.InstructorProfile) error {
	return r.DB.WithContext(ctx).Model(p).
		Select("bio", "experience_years").
		Updates(p).Error
}

// Create 为已有用户建立讲师资料并把角色改为 instructor；用户不存在时返回 gorm.ErrRecordNotFound
func (r *InstructorRepository) Create(ctx context.Context, p *model.InstructorProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, p.UserID).Error; err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("role", model.Instructor).Error; err != nil {
			return err
		}
		user.Role = model.Instructor
		p.User = &user
		return nil
	})
}

func (r *InstructorRepository) ExistsForUser(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.InstructorProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *InstructorRepository) CountCourses(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Course{}).Where("instructor_id = ?", id).Count(&count).Error
	return count, err
}

// Delete 删除讲师资料，关联用户降级为 student
func (r *InstructorRepository) Delete(ctx context.Context, p *model.InstructorProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.InstructorProfile{}, p.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ? AND role = ?", p.UserID, model.Instructor).
			Update("role", model.Student).Error
	})
}
