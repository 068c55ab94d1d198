package model

import "time"

// QuizSummary 课程测验列表行
type QuizSummary struct {
	ID            uint      `json:"id"`
	CourseID      uint      `json:"courseId"`
	Title         string    `json:"title"`
	Order         int       `gorm:"column:display_order" json:"order"`
	PassingScore  int       `json:"passingScore"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// QuizPlayerView 学生作答视图，不含正确答案
type QuizPlayerView struct {
	ID           uint                 `json:"id"`
	CourseID     uint                 `json:"courseId"`
	Title        string               `json:"title"`
	Order        int                  `json:"order"`
	PassingScore int                  `json:"passingScore"`
	Questions    []QuizPlayerQuestion `json:"questions"`
}

type QuizPlayerQuestion struct {
	ID       uint               `json:"id"`
	Text     string             `json:"text"`
	Position int                `json:"position"`
	Options  []QuizPlayerOption `json:"options"`
}

type QuizPlayerOption struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// NewQuizPlayerView 从完整聚合中剥离 IsCorrect
func NewQuizPlayerView(q *Quiz) QuizPlayerView {
	view := QuizPlayerView{
		ID:           q.ID,
		CourseID:     q.CourseID,
		Title:        q.Title,
		Order:        q.Order,
		PassingScore: q.PassingScore,
		Questions:    make([]QuizPlayerQuestion, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		pq := QuizPlayerQuestion{
			ID:       question.ID,
			Text:     question.Text,
			Position: question.Position,
			Options:  make([]QuizPlayerOption, 0, len(question.Options)),
		}
		for _, opt := range question.Options {
			pq.Options = append(pq.Options, QuizPlayerOption{ID: opt.ID, Text: opt.Text, Position: opt.Position})
		}
		view.Questions = append(view.Questions, pq)
	}
	return view
}

// SubmittedAnswer 一道题的作答
type SubmittedAnswer struct {
	QuestionID       uint `json:"questionId"`
	SelectedOptionID uint `json:"selectedOptionId"`
}
