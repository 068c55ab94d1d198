package repository

import (
	"context"
	"coursehub_backend/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

// Upsert 按 (user, lecture) 覆盖或新建笔记，返回是否新建。
// 并发的首次写入只有一方插入成功，另一方落到更新分支。
func (r *NoteRepository) Upsert(ctx context.Context, note *model.Note) (bool, error) {
	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		content := note.Content

		var existing model.Note
		err := tx.Where("user_id = ? AND lecture_id = ?", note.UserID, note.LectureID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			return updateNote(tx, &existing, content, now, note)
		}

		note.ID = 0
		note.CreatedAt = now
		note.ModifiedAt = now
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lecture_id"}},
			DoNothing: true,
		}).Create(note)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			return nil
		}

		// 另一请求抢先插入了同一行
		if err := tx.Where("user_id = ? AND lecture_id = ?", note.UserID, note.LectureID).First(&existing).Error; err != nil {
			return err
		}
		return updateNote(tx, &existing, content, now, note)
	})
	return created, err
}

func updateNote(tx *gorm.DB, existing *model.Note, content string, now time.Time, out *model.Note) error {
	if err := tx.Model(existing).Updates(map[string]interface{}{
		"content":     content,
		"modified_at": now,
	}).Error; err != nil {
		return err
	}
	existing.Content = content
	existing.ModifiedAt = now
	*out = *existing
	return nil
}

func (r *NoteRepository) Find(ctx context.Context, userID, lectureID uint) (*model.Note, error) {
	var note model.Note
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) ListSummariesByUser(ctx context.Context, userID uint) ([]model.NoteSummary, error) {
	rows := make([]model.NoteSummary, 0)
	err := r.DB.WithContext(ctx).Table("notes").
		Select("notes.id, notes.content, notes.modified_at, notes.lecture_id, " +
			"lectures.title AS lecture_title, courses.id AS course_id, " +
			"courses.title AS course_title, courses.image_url AS course_thumbnail").
		Joins("JOIN lectures ON lectures.id = notes.lecture_id").
		Joins("JOIN courses ON courses.id = lectures.course_id").
		Where("notes.user_id = ?", userID).
		Order("notes.modified_at desc, notes.id desc").
		Scan(&rows).Error
	return rows, err
}

func (r *NoteRepository) Delete(ctx context.Context, userID, lectureID uint) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		Delete(&model.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
