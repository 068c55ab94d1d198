package controller

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuizRequest swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers []model.SubmittedAnswer `json:"answers"`
}

// QuizResultsResponse 我的作答记录与最高分
type QuizResultsResponse struct {
	Results []model.QuizResult `json:"results"`
	Best    *model.QuizResult  `json:"best,omitempty"`
}

// ListByCourse godoc
// @Summary 课程测验列表
// @Description 按 order 升序返回测验摘要及题目数
// @Tags 测验
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.QuizSummary}
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	rows, err := c.QuizService.ListByCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// GetForPlayer godoc
// @Summary 获取测验（作答视图）
// @Description 不包含正确答案；需要已选课
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.QuizPlayerView}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetForPlayer(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.QuizService.GetPlayerView(ctx.Request.Context(), v, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetDetail godoc
// @Summary 获取测验（作者视图）
// @Description 包含每个选项的 isCorrect
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response "非课程讲师"
// @Router /api/instructor/quizzes/{id} [get]
func (c *QuizController) GetDetail(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuizDetail(ctx.Request.Context(), v, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Create godoc
// @Summary 创建测验
// @Description 一次提交测验、题目和选项；passingScore 缺省为 70
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateQuizInput true "测验内容"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "参数错误"
// @Failure 403 {object} util.Response "非课程讲师"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/instructor/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	var req service.CreateQuizInput
	if !bindJSON(ctx, &req) {
		return
	}
	quiz, err := c.QuizService.CreateQuiz(ctx.Request.Context(), v, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验
// @Description 连同题目和选项一起删除，作答记录保留
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非课程讲师"
// @Failure 404 {object} util.Response
// @Router /api/instructor/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuizService.DeleteQuiz(ctx.Request.Context(), v, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary 提交测验
// @Description 宽松评分：未知题目和不属于该题的选项被忽略
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param body body SubmitQuizRequest true "作答"
// @Success 200 {object} util.Response{data=model.QuizResult}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if !bindJSON(ctx, &req) {
		return
	}
	result, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), v, id, req.Answers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// MyResults godoc
// @Summary 我的作答记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=QuizResultsResponse}
// @Router /api/quizzes/{id}/results [get]
func (c *QuizController) MyResults(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	results, err := c.QuizService.ListResults(ctx.Request.Context(), v.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	resp := QuizResultsResponse{Results: results}
	if len(results) > 0 {
		best, err := c.QuizService.BestResult(ctx.Request.Context(), v.UserID, id)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		resp.Best = best
	}
	util.Success(ctx, resp)
}
