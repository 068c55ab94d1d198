package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type CategoryService struct {
	CategoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{CategoryRepo: categoryRepo}
}

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	ImageURL string `json:"imageUrl" validate:"omitempty,max=500"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.CategoryRepo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	c, err := s.CategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCategoryNotFound)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	c := &model.Category{Name: in.Name, ImageURL: in.ImageURL}
	if err := s.CategoryRepo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, in.Name, id); err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.ImageURL = in.ImageURL
	if err := s.CategoryRepo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrCategoryExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	err := s.CategoryRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.ErrCategoryNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return util.ErrCategoryInUse
	}
	return err
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, name string, excludeID uint) error {
	exists, err := s.CategoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrCategoryExists
	}
	return nil
}
