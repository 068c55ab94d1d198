package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 错误族：服务层用 fmt.Errorf("%w: ...") 包装，HandleError 按族映射状态码
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrInstructorNotFound = fmt.Errorf("%w: instructor", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("%w: category", ErrNotFound)
	ErrCourseNotFound     = fmt.Errorf("%w: course", ErrNotFound)
	ErrLectureNotFound    = fmt.Errorf("%w: lecture", ErrNotFound)
	ErrQuizNotFound       = fmt.Errorf("%w: quiz", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("%w: enrollment", ErrNotFound)
	ErrNoteNotFound       = fmt.Errorf("%w: note", ErrNotFound)
	ErrReviewNotFound     = fmt.Errorf("%w: review", ErrNotFound)
	ErrResultNotFound     = fmt.Errorf("%w: quiz result", ErrNotFound)

	ErrEmailRegistered   = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAlreadyEnrolled   = fmt.Errorf("%w: already enrolled in this course", ErrConflict)
	ErrCategoryExists    = fmt.Errorf("%w: category name already exists", ErrConflict)
	ErrAlreadyReviewed   = fmt.Errorf("%w: course already reviewed", ErrConflict)
	ErrCategoryInUse     = fmt.Errorf("%w: category still has courses", ErrConflict)
	ErrAlreadyInstructor = fmt.Errorf("%w: user already has an instructor profile", ErrConflict)
	ErrInstructorInUse   = fmt.Errorf("%w: instructor still has courses", ErrConflict)

	ErrNotEnrolled = fmt.Errorf("%w: not enrolled in this course", ErrPermissionDenied)
	ErrNotOwner    = fmt.Errorf("%w: not the owner of this resource", ErrPermissionDenied)
)

// Validationf 构造一个校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HandleError 将服务层错误映射为统一响应，未识别的错误记录日志并返回 500
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c)
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "resource already exists")
	case errors.Is(err, ErrConflict):
		Conflict(c, err.Error())
	case errors.Is(err, ErrPermissionDenied):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, err.Error())
	default:
		LogInternalError(c, err)
	}
}
