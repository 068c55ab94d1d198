package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService *service.NoteService
}

func NewNoteController(noteService *service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

// Save godoc
// @Summary 保存课时笔记
// @Description 同一课时已有笔记时覆盖（200），否则新建（201）
// @Tags 笔记
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SaveNoteInput true "笔记"
// @Success 200 {object} util.Response{data=model.Note}
// @Success 201 {object} util.Response{data=model.Note}
// @Router /api/notes [post]
func (c *NoteController) Save(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	var req service.SaveNoteInput
	if !bindJSON(ctx, &req) {
		return
	}
	note, created, err := c.NoteService.SaveNote(ctx.Request.Context(), v.UserID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, note)
		return
	}
	util.Success(ctx, note)
}

// Get godoc
// @Summary 获取课时笔记
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param lectureId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Note}
// @Failure 404 {object} util.Response
// @Router /api/notes/lecture/{lectureId} [get]
func (c *NoteController) Get(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	lectureID, ok := pathID(ctx, "lectureId")
	if !ok {
		return
	}
	note, err := c.NoteService.GetNote(ctx.Request.Context(), v.UserID, lectureID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// ListMine godoc
// @Summary 我的全部笔记
// @Description 按修改时间倒序，附带课时和课程信息
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.NoteSummary}
// @Router /api/notes/my [get]
func (c *NoteController) ListMine(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	notes, err := c.NoteService.GetUserNotes(ctx.Request.Context(), v.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// Delete godoc
// @Summary 删除课时笔记
// @Tags 笔记
// @Produce json
// @Security ApiKeyAuth
// @Param lectureId path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/notes/lecture/{lectureId} [delete]
func (c *NoteController) Delete(ctx *gin.Context) {
	v, ok := requireViewer(ctx)
	if !ok {
		return
	}
	lectureID, ok := pathID(ctx, "lectureId")
	if !ok {
		return
	}
	if err := c.NoteService.DeleteNote(ctx.Request.Context(), v.UserID, lectureID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
