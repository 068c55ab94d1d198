package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type InstructorService struct {
	InstructorRepo *repository.InstructorRepository
}

func NewInstructorService(instructorRepo *repository.InstructorRepository) *InstructorService {
	return &InstructorService{InstructorRepo: instructorRepo}
}

func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func (s *InstructorService) List(ctx context.Context) ([]model.InstructorProfile, error) {
	return s.InstructorRepo.List(ctx)
}

func (s *InstructorService) Get(ctx context.Context, id uint) (*model.InstructorProfile, error) {
	p, err := s.InstructorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrInstructorNotFound)
	}
	return p, nil
}

func (s *InstructorService) GetByUser(ctx context.Context, userID uint) (*model.InstructorProfile, error) {
	p, err := s.InstructorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, util.ErrInstructorNotFound)
	}
	return p, nil
}

type UpdateInstructorInput struct {
	Bio             string `json:"bio" validate:"max=500"`
	ExperienceYears int    `json:"experienceYears" validate:"gte=0,lte=80"`
}

// Update 讲师本人或管理员可修改
func (s *InstructorService) Update(ctx context.Context, v Viewer, id uint, in UpdateInstructorInput) (*model.InstructorProfile, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !v.IsAdmin() && p.UserID != v.UserID {
		return nil, util.ErrNotOwner
	}

	p.Bio = in.Bio
	p.ExperienceYears = in.ExperienceYears
	if err := s.InstructorRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type CreateInstructorInput struct {
	UserID          uint   `json:"userId" validate:"required"`
	Bio             string `json:"bio" validate:"max=500"`
	ExperienceYears int    `json:"experienceYears" validate:"gte=0,lte=80"`
}

// Create 管理员把已有用户提升为讲师
func (s *InstructorService) Create(ctx context.Context, in CreateInstructorInput) (*model.InstructorProfile, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	exists, err := s.InstructorRepo.ExistsForUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrAlreadyInstructor
	}

	p := &model.InstructorProfile{
		UserID:          in.UserID,
		Bio:             in.Bio,
		ExperienceYears: in.ExperienceYears,
	}
	if err := s.InstructorRepo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyInstructor
		}
		return nil, notFoundAs(err, util.ErrUserNotFound)
	}
	return p, nil
}

// Delete 名下仍有课程时拒绝删除
func (s *InstructorService) Delete(ctx context.Context, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.InstructorRepo.CountCourses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrInstructorInUse
	}
	return s.InstructorRepo.Delete(ctx, p)
}
