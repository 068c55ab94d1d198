package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	InstructorRepo *repository.InstructorRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	instructorRepo *repository.InstructorRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		InstructorRepo: instructorRepo,
	}
}

type EnrollInput struct {
	CourseID      uint            `json:"courseId" validate:"required"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentStatus string          `json:"paymentStatus" validate:"required,max=20"`
}

type UpdatePaymentInput struct {
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentStatus string          `json:"paymentStatus" validate:"required,max=20"`
}

func checkPayment(status string, amount decimal.Decimal) error {
	if isBlank(status) {
		return util.Validationf("paymentStatus is required")
	}
	if amount.IsNegative() {
		return util.Validationf("amountPaid must not be negative")
	}
	return nil
}

// Enroll 同一用户重复购买同一课程返回 ErrAlreadyEnrolled
func (s *EnrollmentService) Enroll(ctx context.Context, userID uint, in EnrollInput) (*model.Enrollment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPayment(in.PaymentStatus, in.AmountPaid); err != nil {
		return nil, err
	}

	if _, err := s.CourseRepo.FindBrief(ctx, in.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	e := &model.Enrollment{
		UserID:        userID,
		CourseID:      in.CourseID,
		PaymentStatus: strings.TrimSpace(in.PaymentStatus),
		AmountPaid:    in.AmountPaid,
		EnrolledAt:    time.Now(),
	}
	if err := s.EnrollmentRepo.Create(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	monitoring.EnrollmentsCreated.Inc()
	logger.Log.Info("enrollment created",
		zap.Uint("userId", userID),
		zap.Uint("courseId", in.CourseID),
		zap.String("amountPaid", in.AmountPaid.StringFixed(2)),
	)
	return e, nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(ctx, userID, courseID)
}

func (s *EnrollmentService) GetByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	e, err := s.EnrollmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EnrollmentService) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListAll(ctx)
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(ctx, userID)
}

func (s *EnrollmentService) ListByInstructor(ctx context.Context, instructorID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByInstructor(ctx, instructorID)
}

func (s *EnrollmentService) InstructorStats(ctx context.Context, instructorID uint) (*model.InstructorStats, error) {
	exists, err := s.InstructorRepo.Exists(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrInstructorNotFound
	}
	return s.EnrollmentRepo.InstructorStats(ctx, instructorID)
}

// CanViewInstructor 讲师只能查看自己的选课报表
func (s *EnrollmentService) CanViewInstructor(ctx context.Context, v Viewer, instructorID uint) error {
	if v.IsAdmin() {
		return nil
	}
	profile, err := s.InstructorRepo.FindByUserID(ctx, v.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotOwner
		}
		return err
	}
	if profile.ID != instructorID {
		return util.ErrNotOwner
	}
	return nil
}

func (s *EnrollmentService) UpdatePayment(ctx context.Context, id uint, in UpdatePaymentInput) (*model.Enrollment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPayment(in.PaymentStatus, in.AmountPaid); err != nil {
		return nil, err
	}
	e, err := s.EnrollmentRepo.UpdatePayment(ctx, id, strings.TrimSpace(in.PaymentStatus), in.AmountPaid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

// Remove 物理删除，删除后该用户立即失去课程访问权
func (s *EnrollmentService) Remove(ctx context.Context, id uint) error {
	if err := s.EnrollmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}
	return nil
}
