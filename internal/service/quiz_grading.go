package service

import "coursehub_backend/internal/model"

// Grade 一次作答的评分结果
type Grade struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// GradeSubmission 宽松评分：未知题目、非本题选项都忽略，同一题只计第一次作答。
// 分数为 correct*100/total 向下取整，无题目时为 0。
func GradeSubmission(quiz *model.Quiz, answers []model.SubmittedAnswer) Grade {
	questions := make(map[uint]*model.QuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	answered := make(map[uint]bool, len(answers))
	correct := 0
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok || answered[a.QuestionID] {
			continue
		}
		answered[a.QuestionID] = true

		for _, opt := range q.Options {
			if opt.ID == a.SelectedOptionID {
				if opt.IsCorrect {
					correct++
				}
				break
			}
		}
	}

	total := len(quiz.Questions)
	score := 0
	if total > 0 {
		score = correct * 100 / total
	}

	return Grade{
		Correct: correct,
		Total:   total,
		Score:   score,
		Passed:  score >= quiz.PassingScore,
	}
}
