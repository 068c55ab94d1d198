package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type LectureService struct {
	LectureRepo  *repository.LectureRepository
	Access       *AccessService
	Storage      *StorageService
	ProbeEnabled bool
}

func NewLectureService(lectureRepo *repository.LectureRepository, access *AccessService, storage *StorageService) *LectureService {
	return &LectureService{
		LectureRepo:  lectureRepo,
		Access:       access,
		Storage:      storage,
		ProbeEnabled: util.ProbeAvailable(),
	}
}

type LectureInput struct {
	CourseID    uint   `json:"courseId" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,max=500"`
	ContentText string `json:"contentText"`
	Order       int    `json:"order" validate:"gte=1"`
	IsPreview   bool   `json:"isPreview"`
}

func (s *LectureService) ListByCourse(ctx context.Context, courseID uint) ([]model.Lecture, error) {
	return s.LectureRepo.ListByCourse(ctx, courseID)
}

// ListAll 管理员查看全部课时
func (s *LectureService) ListAll(ctx context.Context) ([]model.Lecture, error) {
	return s.LectureRepo.List(ctx)
}

func (s *LectureService) get(ctx context.Context, id uint) (*model.Lecture, error) {
	lecture, err := s.LectureRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, util.ErrLectureNotFound)
	}
	return lecture, nil
}

// GetForPlayer 试看课时公开，其余需要课程访问权
func (s *LectureService) GetForPlayer(ctx context.Context, v Viewer, id uint) (*model.Lecture, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.Access.CanPlayLecture(ctx, v, lecture)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrNotEnrolled
	}
	return lecture, nil
}

func (s *LectureService) Create(ctx context.Context, v Viewer, in LectureInput) (*model.Lecture, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, in.CourseID); err != nil {
		return nil, err
	}

	lecture := &model.Lecture{
		CourseID:    in.CourseID,
		Title:       in.Title,
		VideoURL:    in.VideoURL,
		ContentText: in.ContentText,
		Order:       in.Order,
		IsPreview:   in.IsPreview,
	}
	if err := s.LectureRepo.Create(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

// Update 课时不能移动到其他课程
func (s *LectureService) Update(ctx context.Context, v Viewer, id uint, in LectureInput) (*model.Lecture, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.CourseID = lecture.CourseID
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, lecture.CourseID); err != nil {
		return nil, err
	}

	lecture.Title = in.Title
	lecture.VideoURL = in.VideoURL
	lecture.ContentText = in.ContentText
	lecture.Order = in.Order
	lecture.IsPreview = in.IsPreview
	if err := s.LectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

func (s *LectureService) Delete(ctx context.Context, v Viewer, id uint) error {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, lecture.CourseID); err != nil {
		return err
	}
	return notFoundAs(s.LectureRepo.Delete(ctx, id), util.ErrLectureNotFound)
}

// UploadVideo 先落临时文件再探测时长，最后上传到对象存储
func (s *LectureService) UploadVideo(ctx context.Context, v Viewer, id uint, filename string, r io.Reader) (*model.Lecture, error) {
	lecture, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, lecture.CourseID); err != nil {
		return nil, err
	}
	if !util.HasAllowedExtension(filename, util.AllowedVideoExtensions) {
		return nil, util.Validationf("unsupported video extension")
	}

	tmp, err := os.CreateTemp("", "lecture-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	written, err := io.Copy(tmp, io.LimitReader(r, util.MaxVideoBytes+1))
	if err != nil {
		return nil, err
	}
	if written > util.MaxVideoBytes {
		return nil, util.Validationf("video exceeds %d bytes", int64(util.MaxVideoBytes))
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(tmp, []string{util.MimeVideo, "application/octet-stream"})
	if err != nil {
		return nil, util.Validationf("%v", err)
	}
	if mimeType == "application/octet-stream" {
		mimeType = "video/" + strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}

	var duration float64
	if s.ProbeEnabled {
		info, err := util.GetVideoInfo(tmp.Name())
		if err != nil {
			logger.Log.Warn("video probe failed", zap.Uint("lectureId", id), zap.Error(err))
		} else {
			duration = info.Duration
		}
	}

	key := ObjectKey(fmt.Sprintf("lectures/%d", id), filename)
	url, err := s.Storage.UploadFile(ctx, key, tmp.Name(), mimeType)
	if err != nil {
		return nil, err
	}
	if err := s.LectureRepo.UpdateVideo(ctx, id, url, duration); err != nil {
		if derr := s.Storage.Delete(ctx, key); derr != nil {
			logger.Log.Warn("orphan video left in storage", zap.String("key", key), zap.Error(derr))
		}
		return nil, err
	}

	lecture.VideoURL = url
	lecture.DurationSeconds = duration
	return lecture, nil
}
