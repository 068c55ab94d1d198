package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizResult 一次作答的评分记录，只追加不修改
type QuizResult struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	QuizID      uint           `gorm:"index:idx_quiz_results_user_quiz,priority:2;not null" json:"quizId"`
	UserID      uint           `gorm:"index:idx_quiz_results_user_quiz,priority:1;not null" json:"userId"`
	Score       int            `gorm:"not null" json:"score"` // 百分制
	Passed      bool           `gorm:"not null" json:"passed"`
	Correct     int            `json:"correct"`
	Total       int            `json:"total"`
	Answers     datatypes.JSON `json:"answers,omitempty"`
	AttemptedAt time.Time      `gorm:"index" json:"attemptedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
