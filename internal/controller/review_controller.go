package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// @Summary 课程评价列表
// @Tags 评价
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Review}
// @Router /api/courses/{id}/reviews [get]
func (c *ReviewController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	reviews, err := c.ReviewService.ListByCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}

// @Summary 发表评价
// @Description 每门课程每个用户只能评价一次
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ReviewInput true "评价"
// @Success 201 {object} util.Response{data=model.Review}
// @Failure 409 {object} util.Response "已评价"
// @Router /api/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	var req service.ReviewInput
	if !bindJSON(ctx, &req) {
		return
	}
	review, err := c.ReviewService.Create(ctx.Request.Context(), v.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// @Summary 修改评价
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评价ID"
// @Param body body service.ReviewInput true "评价"
// @Success 200 {object} util.Response{data=model.Review}
// @Router /api/reviews/{id} [put]
func (c *ReviewController) Update(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ReviewInput
	if !bindJSON(ctx, &req) {
		return
	}
	review, err := c.ReviewService.Update(ctx.Request.Context(), v, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// @Summary 删除评价
// @Tags 评价
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "评价ID"
// @Success 200 {object} util.Response
// @Router /api/reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ReviewService.Delete(ctx.Request.Context(), v, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 全部评价
// @Tags 评价
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Review}
// @Router /api/reviews [get]
func (c *ReviewController) List(ctx *gin.Context) {
	list, err := c.ReviewService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 评价详情
// @Tags 评价
// @Produce json
// @Param id path int true "评价ID"
// @Success 200 {object} util.Response{data=model.Review}
// @Failure 404 {object} util.Response
// @Router /api/reviews/{id} [get]
func (c *ReviewController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	review, err := c.ReviewService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}
