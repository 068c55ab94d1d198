package repository

import (
	"context"
	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// Create 一次写入测验、题目和选项，任何一步失败整体回滚
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

func (r *QuizRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc, id asc")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CourseIDOf 只查测验所属课程
func (r *QuizRepository) CourseIDOf(ctx context.Context, id uint) (uint, error) {
	var quiz model.Quiz
	if err := r.DB.WithContext(ctx).Select("id", "course_id").First(&quiz, id).Error; err != nil {
		return 0, err
	}
	return quiz.CourseID, nil
}

func (r *QuizRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.QuizSummary, error) {
	rows := make([]model.QuizSummary, 0)
	err := r.DB.WithContext(ctx).Table("quizzes").
		Select("quizzes.id, quizzes.course_id, quizzes.title, quizzes.display_order, quizzes.passing_score, quizzes.created_at, " +
			"(SELECT COUNT(*) FROM quiz_questions q WHERE q.quiz_id = quizzes.id) AS question_count").
		Where("quizzes.course_id = ?", courseID).
		Order("quizzes.display_order asc, quizzes.id asc").
		Scan(&rows).Error
	return rows, err
}

// Delete 删除选项、题目和测验本身；测验不存在时返回 gorm.ErrRecordNotFound
func (r *QuizRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.Select("id").First(&quiz, id).Error; err != nil {
			return err
		}
		return deleteQuizTree(tx, id)
	})
}

func deleteQuizTree(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuizOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.Quiz{}, quizID).Error
}

func (r *QuizRepository) CreateResult(ctx context.Context, result *model.QuizResult) error {
	return r.DB.WithContext(ctx).Create(result).Error
}

// ListResults 最新作答在前
func (r *QuizRepository) ListResults(ctx context.Context, userID, quizID uint) ([]model.QuizResult, error) {
	results := make([]model.QuizResult, 0)
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempted_at desc, id desc").
		Find(&results).Error
	return results, err
}

// BestResult 分数最高者，同分取最早的一次
func (r *QuizRepository) BestResult(ctx context.Context, userID, quizID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("score desc, attempted_at asc, id asc").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
