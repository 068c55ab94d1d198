package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// Viewer 当前请求的用户身份
type Viewer struct {
	UserID uint
	Role   model.UserRole
}

func ViewerOf(claims *util.Claims) Viewer {
	if claims == nil {
		return Viewer{}
	}
	return Viewer{UserID: claims.UserID, Role: claims.Role}
}

func (v Viewer) IsAdmin() bool {
	return v.Role == model.Admin
}

// AccessService 课程内容访问控制：管理员、课程讲师和已选课学生可访问，试看课时对所有人开放
type AccessService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	InstructorRepo *repository.InstructorRepository
	QuizRepo       *repository.QuizRepository
}

func NewAccessService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	instructorRepo *repository.InstructorRepository,
	quizRepo *repository.QuizRepository,
) *AccessService {
	return &AccessService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		InstructorRepo: instructorRepo,
		QuizRepo:       quizRepo,
	}
}

// IsCourseInstructor 课程不存在时返回 ErrCourseNotFound
func (s *AccessService) IsCourseInstructor(ctx context.Context, v Viewer, courseID uint) (bool, error) {
	course, err := s.CourseRepo.FindBrief(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrCourseNotFound
		}
		return false, err
	}
	if v.Role != model.Instructor {
		return false, nil
	}
	profile, err := s.InstructorRepo.FindByUserID(ctx, v.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.ID == course.InstructorID, nil
}

func (s *AccessService) CanAccessCourse(ctx context.Context, v Viewer, courseID uint) (bool, error) {
	if v.UserID == 0 {
		return false, nil
	}
	if v.IsAdmin() {
		return true, nil
	}
	if v.Role == model.Instructor {
		owner, err := s.IsCourseInstructor(ctx, v, courseID)
		if err != nil && !errors.Is(err, util.ErrCourseNotFound) {
			return false, err
		}
		if owner {
			return true, nil
		}
	}
	return s.EnrollmentRepo.Exists(ctx, v.UserID, courseID)
}

func (s *AccessService) CanPlayLecture(ctx context.Context, v Viewer, lecture *model.Lecture) (bool, error) {
	if lecture.IsPreview {
		return true, nil
	}
	return s.CanAccessCourse(ctx, v, lecture.CourseID)
}

func (s *AccessService) CanPlayQuiz(ctx context.Context, v Viewer, quizID uint) (bool, error) {
	courseID, err := s.QuizRepo.CourseIDOf(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrQuizNotFound
		}
		return false, err
	}
	return s.CanAccessCourse(ctx, v, courseID)
}

// RequireCourseAccess 无权访问时返回 ErrNotEnrolled
func (s *AccessService) RequireCourseAccess(ctx context.Context, v Viewer, courseID uint) error {
	ok, err := s.CanAccessCourse(ctx, v, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

// RequireQuizAccess 测验不存在时返回 ErrQuizNotFound，无权访问时返回 ErrNotEnrolled
func (s *AccessService) RequireQuizAccess(ctx context.Context, v Viewer, quizID uint) error {
	ok, err := s.CanPlayQuiz(ctx, v, quizID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

// RequireCourseOwner 课程管理操作仅限管理员和该课程讲师
func (s *AccessService) RequireCourseOwner(ctx context.Context, v Viewer, courseID uint) error {
	owner, err := s.IsCourseInstructor(ctx, v, courseID)
	if err != nil {
		return err
	}
	if owner || v.IsAdmin() {
		return nil
	}
	return util.ErrNotOwner
}
