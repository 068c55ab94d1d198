package service

import (
	"context"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
	Cache    *QuizCache
	Access   *AccessService
}

func NewQuizService(quizRepo *repository.QuizRepository, cache *QuizCache, access *AccessService) *QuizService {
	return &QuizService{
		QuizRepo: quizRepo,
		Cache:    cache,
		Access:   access,
	}
}

type CreateQuizInput struct {
	CourseID     uint                  `json:"courseId" validate:"required"`
	Title        string                `json:"title" validate:"required,max=200"`
	Order        int                   `json:"order" validate:"gte=0"`
	PassingScore *int                  `json:"passingScore" validate:"omitempty,gte=0,lte=100"`
	Questions    []CreateQuestionInput `json:"questions" validate:"dive"`
}

type CreateQuestionInput struct {
	Text    string              `json:"text" validate:"required"`
	Options []CreateOptionInput `json:"options" validate:"min=1,dive"`
}

type CreateOptionInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

func (in CreateQuizInput) check() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if isBlank(in.Title) {
		return util.Validationf("title is required")
	}
	for i, q := range in.Questions {
		if isBlank(q.Text) {
			return util.Validationf("questions[%d].text is required", i)
		}
		hasCorrect := false
		for j, opt := range q.Options {
			if isBlank(opt.Text) {
				return util.Validationf("questions[%d].options[%d].text is required", i, j)
			}
			hasCorrect = hasCorrect || opt.IsCorrect
		}
		if !hasCorrect {
			return util.Validationf("questions[%d] needs at least one correct option", i)
		}
	}
	return nil
}

// CreateQuiz 整个聚合一次写入；仅课程讲师和管理员可创建，课程不存在时返回 ErrCourseNotFound
func (s *QuizService) CreateQuiz(ctx context.Context, v Viewer, in CreateQuizInput) (*model.Quiz, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, in.CourseID); err != nil {
		return nil, err
	}

	passing := util.DefaultPassingScore
	if in.PassingScore != nil {
		passing = *in.PassingScore
	}

	quiz := &model.Quiz{
		CourseID:     in.CourseID,
		Title:        strings.TrimSpace(in.Title),
		Order:        in.Order,
		PassingScore: passing,
		Questions:    make([]model.QuizQuestion, 0, len(in.Questions)),
	}
	for i, q := range in.Questions {
		question := model.QuizQuestion{
			Text:     strings.TrimSpace(q.Text),
			Position: i,
			Options:  make([]model.QuizOption, 0, len(q.Options)),
		}
		for j, opt := range q.Options {
			question.Options = append(question.Options, model.QuizOption{
				Text:      strings.TrimSpace(opt.Text),
				IsCorrect: opt.IsCorrect,
				Position:  j,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	s.invalidate(ctx, quiz.CourseID)
	return quiz, nil
}

func (s *QuizService) load(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// GetQuizDetail 作者视图，含正确答案，仅课程讲师和管理员可见
func (s *QuizService) GetQuizDetail(ctx context.Context, v Viewer, id uint) (*model.Quiz, error) {
	quiz, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, quiz.CourseID); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetPlayerView 学生视图，需要课程访问权
func (s *QuizService) GetPlayerView(ctx context.Context, v Viewer, id uint) (*model.QuizPlayerView, error) {
	if err := s.Access.RequireQuizAccess(ctx, v, id); err != nil {
		return nil, err
	}
	quiz, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := model.NewQuizPlayerView(quiz)
	return &view, nil
}

func (s *QuizService) ListByCourse(ctx context.Context, courseID uint) ([]model.QuizSummary, error) {
	rows, gen, hit, err := s.Cache.Get(ctx, courseID)
	cacheable := s.Cache.Enabled()
	switch {
	case err != nil:
		cacheable = false
		monitoring.QuizCacheLookups.WithLabelValues("error").Inc()
		logger.Log.Warn("quiz list cache read failed", zap.Uint("courseId", courseID), zap.Error(err))
	case hit:
		monitoring.QuizCacheLookups.WithLabelValues("hit").Inc()
		return rows, nil
	case cacheable:
		monitoring.QuizCacheLookups.WithLabelValues("miss").Inc()
	}

	rows, err = s.QuizRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return rows, nil
	}
	// 读取期间若发生失效，代数已变化，Set 会放弃写入
	if err := s.Cache.Set(ctx, courseID, gen, rows); err != nil {
		logger.Log.Warn("quiz list cache write failed", zap.Uint("courseId", courseID), zap.Error(err))
	}
	return rows, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, v Viewer, id uint) error {
	courseID, err := s.QuizRepo.CourseIDOf(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if err := s.Access.RequireCourseOwner(ctx, v, courseID); err != nil {
		return err
	}
	if err := s.QuizRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	s.invalidate(ctx, courseID)
	return nil
}

// SubmitQuiz 评分并追加一条作答记录，同一用户可多次提交
func (s *QuizService) SubmitQuiz(ctx context.Context, v Viewer, quizID uint, answers []model.SubmittedAnswer) (*model.QuizResult, error) {
	if err := s.Access.RequireQuizAccess(ctx, v, quizID); err != nil {
		return nil, err
	}
	quiz, err := s.load(ctx, quizID)
	if err != nil {
		return nil, err
	}

	grade := GradeSubmission(quiz, answers)

	if answers == nil {
		answers = []model.SubmittedAnswer{}
	}
	snapshot, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		QuizID:      quiz.ID,
		UserID:      v.UserID,
		Score:       grade.Score,
		Passed:      grade.Passed,
		Correct:     grade.Correct,
		Total:       grade.Total,
		Answers:     datatypes.JSON(snapshot),
		AttemptedAt: time.Now(),
	}
	if err := s.QuizRepo.CreateResult(ctx, result); err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues(strconv.FormatBool(grade.Passed)).Inc()
	logger.Log.Info("quiz graded",
		zap.Uint("quizId", quiz.ID),
		zap.Uint("userId", v.UserID),
		zap.Int("score", grade.Score),
		zap.Bool("passed", grade.Passed),
	)
	return result, nil
}

func (s *QuizService) ListResults(ctx context.Context, userID, quizID uint) ([]model.QuizResult, error) {
	return s.QuizRepo.ListResults(ctx, userID, quizID)
}

func (s *QuizService) BestResult(ctx context.Context, userID, quizID uint) (*model.QuizResult, error) {
	result, err := s.QuizRepo.BestResult(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// InvalidateCourse 课程被删除时由课程服务调用
func (s *QuizService) InvalidateCourse(ctx context.Context, courseID uint) {
	s.invalidate(ctx, courseID)
}

func (s *QuizService) invalidate(ctx context.Context, courseID uint) {
	if err := s.Cache.Invalidate(ctx, courseID); err != nil {
		logger.Log.Warn("quiz list cache invalidation failed", zap.Uint("courseId", courseID), zap.Error(err))
	}
}
