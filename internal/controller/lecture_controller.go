package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LectureController struct {
	LectureService *service.LectureService
}

func NewLectureController(lectureService *service.LectureService) *LectureController {
	return &LectureController{LectureService: lectureService}
}

// ListByCourse godoc
// @Summary 课程课时列表
// @Description 按 order 升序
// @Tags 课时
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lecture}
// @Router /api/courses/{id}/lectures [get]
func (c *LectureController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lectures, err := c.LectureService.ListByCourse(ctx.Request.Context(), courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lectures)
}

// Get godoc
// @Summary 播放课时
// @Description 试看课时无需登录，其余课时需已选课或为课程讲师
// @Tags 课时
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Failure 403 {object} util.Response "未选课"
// @Router /api/lectures/{id} [get]
func (c *LectureController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var v service.Viewer
	if claims := util.GetUserFromContext(ctx); claims != nil {
		v = service.ViewerOf(claims)
	}
	lecture, err := c.LectureService.GetForPlayer(ctx.Request.Context(), v, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.LectureInput true "课时"
// @Success 201 {object} util.Response{data=model.Lecture}
// @Router /api/instructor/lectures [post]
func (c *LectureController) Create(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	var req service.LectureInput
	if !bindJSON(ctx, &req) {
		return
	}
	lecture, err := c.LectureService.Create(ctx.Request.Context(), v, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lecture)
}

// Update godoc
// @Summary 修改课时
// @Tags 课时
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body service.LectureInput true "课时"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Router /api/instructor/lectures/{id} [put]
func (c *LectureController) Update(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.LectureInput
	if !bindJSON(ctx, &req) {
		return
	}
	lecture, err := c.LectureService.Update(ctx.Request.Context(), v, id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/lectures/{id} [delete]
func (c *LectureController) Delete(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.LectureService.Delete(ctx.Request.Context(), v, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Tags 课时
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lecture}
// @Router /api/instructor/lectures/{id}/video [post]
func (c *LectureController) UploadVideo(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fh.Size > util.MaxVideoBytes {
		util.BadRequest(ctx, "video is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	lecture, err := c.LectureService.UploadVideo(ctx.Request.Context(), v, id, fh.Filename, f)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// ListAll godoc
// @Summary 全部课时（管理员）
// @Tags 课时
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Lecture}
// @Router /api/admin/lectures [get]
func (c *LectureController) ListAll(ctx *gin.Context) {
	lectures, err := c.LectureService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, lectures)
}
