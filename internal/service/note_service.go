package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"
)

type NoteService struct {
	NoteRepo    *repository.NoteRepository
	LectureRepo *repository.LectureRepository
}

func NewNoteService(noteRepo *repository.NoteRepository, lectureRepo *repository.LectureRepository) *NoteService {
	return &NoteService{
		NoteRepo:    noteRepo,
		LectureRepo: lectureRepo,
	}
}

type SaveNoteInput struct {
	LectureID uint   `json:"lectureId" validate:"required"`
	Content   string `json:"content"`
}

func (in SaveNoteInput) check() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Content) > util.MaxNoteLength {
		return util.Validationf("content must be at most %d characters", util.MaxNoteLength)
	}
	return nil
}

// SaveNote 每个 (用户, 课时) 只保留一条笔记，第二个返回值表示是否新建
func (s *NoteService) SaveNote(ctx context.Context, userID uint, in SaveNoteInput) (*model.Note, bool, error) {
	if err := in.check(); err != nil {
		return nil, false, err
	}
	if _, err := s.LectureRepo.FindByID(ctx, in.LectureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrLectureNotFound
		}
		return nil, false, err
	}

	note := &model.Note{
		UserID:    userID,
		LectureID: in.LectureID,
		Content:   in.Content,
	}
	created, err := s.NoteRepo.Upsert(ctx, note)
	if err != nil {
		return nil, false, err
	}
	return note, created, nil
}

func (s *NoteService) GetNote(ctx context.Context, userID, lectureID uint) (*model.Note, error) {
	note, err := s.NoteRepo.Find(ctx, userID, lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (s *NoteService) GetUserNotes(ctx context.Context, userID uint) ([]model.NoteSummary, error) {
	return s.NoteRepo.ListSummariesByUser(ctx, userID)
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, lectureID uint) error {
	if err := s.NoteRepo.Delete(ctx, userID, lectureID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNoteNotFound
		}
		return err
	}
	return nil
}
