package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 选课
// @Description 记录一次购买；重复选课返回 409
// @Tags 选课
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.EnrollInput true "选课信息"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 409 {object} util.Response "已选过该课程"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	var req service.EnrollInput
	if !bindJSON(ctx, &req) {
		return
	}
	e, err := c.EnrollmentService.Enroll(ctx.Request.Context(), v.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, e)
}

// Check godoc
// @Summary 是否已选课
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param courseId query int true "课程ID"
// @Success 200 {object} util.Response{data=map[string]bool}
// @Router /api/enrollments/check [get]
func (c *EnrollmentController) Check(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	courseID, err := util.ParseIDQuery(ctx, "courseId")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	enrolled, err := c.EnrollmentService.IsEnrolled(ctx.Request.Context(), v.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrolled": enrolled})
}

// ListMine godoc
// @Summary 我的选课
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/my [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	list, err := c.EnrollmentService.ListByUser(ctx.Request.Context(), v.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ListByUser godoc
// @Summary 指定用户的选课
// @Description 仅本人或管理员
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/user/{userId} [get]
func (c *EnrollmentController) ListByUser(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}
	if !v.IsAdmin() && v.UserID != userID {
		util.Forbidden(ctx)
		return
	}
	list, err := c.EnrollmentService.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ListAll godoc
// @Summary 全部选课记录
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListAll(ctx *gin.Context) {
	list, err := c.EnrollmentService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Get godoc
// @Summary 选课详情
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	e, err := c.EnrollmentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !v.IsAdmin() && e.UserID != v.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, e)
}

// UpdatePayment godoc
// @Summary 修改支付信息
// @Tags 选课
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选课ID"
// @Param body body service.UpdatePaymentInput true "支付信息"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/enrollments/{id} [put]
func (c *EnrollmentController) UpdatePayment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.UpdatePaymentInput
	if !bindJSON(ctx, &req) {
		return
	}
	e, err := c.EnrollmentService.UpdatePayment(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, e)
}

// Remove godoc
// @Summary 删除选课
// @Description 删除后立即失去课程访问权
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "选课ID"
// @Success 200 {object} util.Response
// @Router /api/enrollments/{id} [delete]
func (c *EnrollmentController) Remove(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EnrollmentService.Remove(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListByInstructor godoc
// @Summary 讲师课程的选课记录
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param instructorId path int true "讲师ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/instructor/enrollments/{instructorId} [get]
func (c *EnrollmentController) ListByInstructor(ctx *gin.Context) {
	instructorID, ok := c.instructorScope(ctx)
	if !ok {
		return
	}
	list, err := c.EnrollmentService.ListByInstructor(ctx.Request.Context(), instructorID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// InstructorStats godoc
// @Summary 讲师选课汇总
// @Description 总收入、学生数和选课数
// @Tags 选课
// @Produce json
// @Security ApiKeyAuth
// @Param instructorId path int true "讲师ID"
// @Success 200 {object} util.Response{data=model.InstructorStats}
// @Router /api/instructor/enrollments/{instructorId}/stats [get]
func (c *EnrollmentController) InstructorStats(ctx *gin.Context) {
	instructorID, ok := c.instructorScope(ctx)
	if !ok {
		return
	}
	stats, err := c.EnrollmentService.InstructorStats(ctx.Request.Context(), instructorID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func (c *EnrollmentController) instructorScope(ctx *gin.Context) (uint, bool) {
	v, ok := requireViewer(ctx)
	if !ok {
		return 0, false
	}
	instructorID, ok := pathID(ctx, "instructorId")
	if !ok {
		return 0, false
	}
	if err := c.EnrollmentService.CanViewInstructor(ctx.Request.Context(), v, instructorID); err != nil {
		util.HandleError(ctx, err)
		return 0, false
	}
	return instructorID, true
}
