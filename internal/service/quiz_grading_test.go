package service

import (
	"testing"

	"coursehub_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

// gradingQuiz n 道题，题 i 的 id 为 i+1，选项 id 为 (i+1)*10+j，j==0 为正确选项
func gradingQuiz(n, passing int) *model.Quiz {
	q := &model.Quiz{PassingScore: passing}
	for i := 0; i < n; i++ {
		qid := uint(i + 1)
		q.Questions = append(q.Questions, model.QuizQuestion{
			ID:     qid,
			QuizID: 1,
			Options: []model.QuizOption{
				{ID: qid*10 + 0, QuestionID: qid, IsCorrect: true},
				{ID: qid*10 + 1, QuestionID: qid},
				{ID: qid*10 + 2, QuestionID: qid},
			},
		})
	}
	return q
}

// answersFor 前 correct 题选正确项，其余选错误项
func answersFor(n, correct int) []model.SubmittedAnswer {
	answers := make([]model.SubmittedAnswer, 0, n)
	for i := 0; i < n; i++ {
		qid := uint(i + 1)
		opt := qid*10 + 1
		if i < correct {
			opt = qid * 10
		}
		answers = append(answers, model.SubmittedAnswer{QuestionID: qid, SelectedOptionID: opt})
	}
	return answers
}

func TestGradeSubmission_PassingBoundary(t *testing.T) {
	quiz := gradingQuiz(10, 70)

	g := GradeSubmission(quiz, answersFor(10, 7))
	assert.Equal(t, Grade{Correct: 7, Total: 10, Score: 70, Passed: true}, g)

	g = GradeSubmission(quiz, answersFor(10, 6))
	assert.Equal(t, Grade{Correct: 6, Total: 10, Score: 60, Passed: false}, g)
}

func TestGradeSubmission_ScoreTruncates(t *testing.T) {
	g := GradeSubmission(gradingQuiz(3, 70), answersFor(3, 2))
	assert.Equal(t, 66, g.Score)
	assert.False(t, g.Passed)

	g = GradeSubmission(gradingQuiz(3, 0), answersFor(3, 1))
	assert.Equal(t, 33, g.Score)
	assert.True(t, g.Passed)
}

func TestGradeSubmission_NoQuestions(t *testing.T) {
	quiz := gradingQuiz(0, 70)
	g := GradeSubmission(quiz, []model.SubmittedAnswer{{QuestionID: 1, SelectedOptionID: 10}})
	assert.Equal(t, Grade{Correct: 0, Total: 0, Score: 0, Passed: false}, g)

	// 及格线为 0 时空测验也算通过
	quiz.PassingScore = 0
	assert.True(t, GradeSubmission(quiz, nil).Passed)
}

func TestGradeSubmission_Lenient(t *testing.T) {
	quiz := gradingQuiz(4, 50)

	answers := []model.SubmittedAnswer{
		{QuestionID: 1, SelectedOptionID: 10},  // 正确
		{QuestionID: 2, SelectedOptionID: 30},  // 题 3 的正确选项，不属于题 2
		{QuestionID: 99, SelectedOptionID: 10}, // 不存在的题目
		{QuestionID: 3, SelectedOptionID: 0},   // 未选择
		{QuestionID: 4, SelectedOptionID: 999}, // 不存在的选项
	}
	g := GradeSubmission(quiz, answers)
	assert.Equal(t, 1, g.Correct)
	assert.Equal(t, 4, g.Total)
	assert.Equal(t, 25, g.Score)
	assert.False(t, g.Passed)
}

func TestGradeSubmission_DuplicateAnswerCountsOnce(t *testing.T) {
	quiz := gradingQuiz(2, 70)

	repeated := []model.SubmittedAnswer{
		{QuestionID: 1, SelectedOptionID: 10},
		{QuestionID: 1, SelectedOptionID: 10},
		{QuestionID: 1, SelectedOptionID: 10},
	}
	g := GradeSubmission(quiz, repeated)
	assert.Equal(t, 1, g.Correct)
	assert.Equal(t, 50, g.Score)

	// 第一次作答生效
	firstWrong := []model.SubmittedAnswer{
		{QuestionID: 1, SelectedOptionID: 11},
		{QuestionID: 1, SelectedOptionID: 10},
	}
	assert.Equal(t, 0, GradeSubmission(quiz, firstWrong).Correct)
}

func TestGradeSubmission_Deterministic(t *testing.T) {
	quiz := gradingQuiz(5, 60)
	answers := answersFor(5, 3)

	first := GradeSubmission(quiz, answers)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, GradeSubmission(quiz, answers))
	}
}

func TestGradeSubmission_PerfectScore(t *testing.T) {
	g := GradeSubmission(gradingQuiz(10, 100), answersFor(10, 10))
	assert.Equal(t, 100, g.Score)
	assert.True(t, g.Passed)
}
