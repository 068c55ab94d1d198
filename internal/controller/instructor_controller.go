package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InstructorController struct {
	InstructorService *service.InstructorService
	CourseService     *service.CourseService
}

func NewInstructorController(instructorService *service.InstructorService, courseService *service.CourseService) *InstructorController {
	return &InstructorController{
		InstructorService: instructorService,
		CourseService:     courseService,
	}
}

// @Summary 讲师列表
// @Tags 讲师
// @Produce json
// @Success 200 {object} util.Response{data=[]model.InstructorProfile}
// @Router /api/instructors [get]
func (c *InstructorController) List(ctx *gin.Context) {
	list, err := c.InstructorService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 讲师详情
// @Tags 讲师
// @Produce json
// @Param id path int true "讲师ID"
// @Success 200 {object} util.Response{data=model.InstructorProfile}
// @Router /api/instructors/{id} [get]
func (c *InstructorController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	p, err := c.InstructorService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 讲师的课程
// @Tags 讲师
// @Produce json
// @Param id path int true "讲师ID"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/instructors/{id}/courses [get]
func (c *InstructorController) Courses(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	courses, err := c.CourseService.ListByInstructor(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 我的讲师资料
// @Tags 讲师
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.InstructorProfile}
// @Router /api/instructor/profile [get]
func (c *InstructorController) Mine(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	p, err := c.InstructorService.GetByUser(ctx.Request.Context(), v.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 修改讲师资料
// @Tags 讲师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "讲师ID"
// @Param body body service.UpdateInstructorInput true "资料"
// @Success 200 {object} util.Response{data=model.InstructorProfile}
// @Router /api/instructors/{id} [put]
func (c *InstructorController) Update(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdateInstructorInput
	if !bindJSON(ctx, &req) {
		return
	}
	p, err := c.InstructorService.Update(ctx.Request.Context(), v, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 提升用户为讲师（管理员）
// @Tags 讲师
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateInstructorInput true "讲师资料"
// @Success 201 {object} util.Response{data=model.InstructorProfile}
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "已是讲师"
// @Router /api/admin/instructors [post]
func (c *InstructorController) Create(ctx *gin.Context) {
	var req service.CreateInstructorInput
	if !bindJSON(ctx, &req) {
		return
	}
	p, err := c.InstructorService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// @Summary 删除讲师资料（管理员）
// @Description 名下仍有课程时返回 409，用户角色恢复为 student
// @Tags 讲师
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "讲师ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "仍有课程"
// @Router /api/admin/instructors/{id} [delete]
func (c *InstructorController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.InstructorService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
