package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// requireViewer 未登录时直接写 401
func requireViewer(ctx *gin.Context) (service.Viewer, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return service.Viewer{}, false
	}
	return service.ViewerOf(claims), true
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseIDParam(ctx, name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, false
	}
	return id, true
}

func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
