package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo *repository.ReviewRepository
	CourseRepo *repository.CourseRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, courseRepo *repository.CourseRepository) *ReviewService {
	return &ReviewService{
		ReviewRepo: reviewRepo,
		CourseRepo: courseRepo,
	}
}

type ReviewInput struct {
	CourseID uint   `json:"courseId" validate:"required"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

func (s *ReviewService) ListByCourse(ctx context.Context, courseID uint) ([]model.Review, error) {
	return s.ReviewRepo.ListByCourse(ctx, courseID)
}

func (s *ReviewService) List(ctx context.Context) ([]model.Review, error) {
	return s.ReviewRepo.List(ctx)
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.ReviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrReviewNotFound)
	}
	return review, nil
}

// Create 每个用户对每门课程只能评价一次，写入后课程均分同步刷新
func (s *ReviewService) Create(ctx context.Context, userID uint, in ReviewInput) (*model.Review, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.CourseRepo.FindBrief(ctx, in.CourseID); err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}

	review := &model.Review{
		CourseID: in.CourseID,
		UserID:   userID,
		Rating:   in.Rating,
		Comment:  in.Comment,
	}
	if err := s.ReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyReviewed
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) owned(ctx context.Context, v Viewer, id uint) (*model.Review, error) {
	review, err := s.ReviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrReviewNotFound)
	}
	if !v.IsAdmin() && review.UserID != v.UserID {
		return nil, util.ErrNotOwner
	}
	return review, nil
}

// Update 课程不可更改，只改评分和内容
func (s *ReviewService) Update(ctx context.Context, v Viewer, id uint, in ReviewInput) (*model.Review, error) {
	review, err := s.owned(ctx, v, id)
	if err != nil {
		return nil, err
	}
	in.CourseID = review.CourseID
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	review.Rating = in.Rating
	review.Comment = in.Comment
	if err := s.ReviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, v Viewer, id uint) error {
	review, err := s.owned(ctx, v, id)
	if err != nil {
		return err
	}
	return s.ReviewRepo.Delete(ctx, review)
}
