package service

import (
	"bytes"
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	InstructorRepo *repository.InstructorRepository
	Access         *AccessService
	Storage        *StorageService
	Quizzes        *QuizService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	instructorRepo *repository.InstructorRepository,
	access *AccessService,
	storage *StorageService,
	quizzes *QuizService,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		InstructorRepo: instructorRepo,
		Access:         access,
		Storage:        storage,
		Quizzes:        quizzes,
	}
}

type CourseInput struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=20000"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   uint            `json:"categoryId" validate:"required"`
	InstructorID uint            `json:"instructorId"` // 仅管理员创建时使用
}

func (in *CourseInput) check() error {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return util.Validationf("price must not be negative")
	}
	return nil
}

func (s *CourseService) List(ctx context.Context, f repository.CourseFilter) ([]model.Course, int64, error) {
	return s.CourseRepo.List(ctx, f)
}

func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}
	return course, nil
}

func (s *CourseService) ListByInstructor(ctx context.Context, instructorID uint) ([]model.Course, error) {
	courses, _, err := s.CourseRepo.List(ctx, repository.CourseFilter{InstructorID: instructorID})
	return courses, err
}

// Create 讲师创建的课程归属本人；管理员需指定 instructorId
func (s *CourseService) Create(ctx context.Context, v Viewer, in CourseInput) (*model.Course, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	instructorID := in.InstructorID
	if !v.IsAdmin() {
		profile, err := s.InstructorRepo.FindByUserID(ctx, v.UserID)
		if err != nil {
			return nil, notFoundAs(err, util.ErrInstructorNotFound)
		}
		instructorID = profile.ID
	}

	exists, err := s.InstructorRepo.Exists(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.Validationf("instructor %d does not exist", instructorID)
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	course := &model.Course{
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		CategoryID:   in.CategoryID,
		InstructorID: instructorID,
	}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, v Viewer, id uint, in CourseInput) (*model.Course, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, id); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindBrief(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrCourseNotFound)
	}
	course.Title = in.Title
	course.Description = in.Description
	course.Price = in.Price
	course.CategoryID = in.CategoryID
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *CourseService) Delete(ctx context.Context, v Viewer, id uint) error {
	if err := s.Access.RequireCourseOwner(ctx, v, id); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, util.ErrCourseNotFound)
	}
	s.Quizzes.InvalidateCourse(ctx, id)
	return nil
}

// UploadThumbnail 校验图片类型，缩放到固定宽度后写入对象存储
func (s *CourseService) UploadThumbnail(ctx context.Context, v Viewer, id uint, filename string, r io.Reader) (string, error) {
	if err := s.Access.RequireCourseOwner(ctx, v, id); err != nil {
		return "", err
	}
	if !util.HasAllowedExtension(filename, util.AllowedImageExtensions) {
		return "", util.Validationf("unsupported image extension")
	}

	data, err := io.ReadAll(io.LimitReader(r, util.MaxThumbnailBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > util.MaxThumbnailBytes {
		return "", util.Validationf("image exceeds %d bytes", util.MaxThumbnailBytes)
	}
	if _, err := util.ValidateMimeType(bytes.NewReader(data), []string{util.MimeImage}); err != nil {
		return "", util.Validationf("%v", err)
	}

	thumb, err := util.ResizeThumbnail(bytes.NewReader(data), util.ThumbnailWidth)
	if err != nil {
		return "", util.Validationf("%v", err)
	}

	key := ObjectKey(fmt.Sprintf("courses/%d", id), "thumbnail.jpg")
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg")
	if err != nil {
		return "", err
	}
	if err := s.CourseRepo.UpdateImage(ctx, id, url); err != nil {
		if derr := s.Storage.Delete(ctx, key); derr != nil {
			logger.Log.Warn("orphan thumbnail left in storage", zap.String("key", key), zap.Error(derr))
		}
		return "", err
	}
	return url, nil
}

func (s *CourseService) checkCategory(ctx context.Context, categoryID uint) error {
	exists, err := s.CategoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return util.Validationf("category %d does not exist", categoryID)
	}
	return nil
}
