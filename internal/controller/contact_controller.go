package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	ContactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{ContactService: contactService}
}

// Create godoc
// @Summary 提交联系留言
// @Tags 联系
// @Accept json
// @Produce json
// @Param body body service.ContactInput true "留言"
// @Success 201 {object} util.Response{data=model.ContactMessage}
// @Router /api/contact [post]
func (c *ContactController) Create(ctx *gin.Context) {
	var req service.ContactInput
	if !bindJSON(ctx, &req) {
		return
	}
	msg, err := c.ContactService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, msg)
}

// List godoc
// @Summary 留言列表
// @Tags 联系
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/contact [get]
func (c *ContactController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	list, total, err := c.ContactService.List(ctx.Request.Context(), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}
