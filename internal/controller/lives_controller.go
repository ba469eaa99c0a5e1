package controller

import (
	"context"
	"ravencode_backend/internal/service"
	"ravencode_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LivesReader interface {
	Status(ctx context.Context, userID uint) (*service.LivesStatus, error)
}

type LivesController struct {
	Lives LivesReader
}

func NewLivesController(lives LivesReader) *LivesController {
	return &LivesController{Lives: lives}
}

// GetLives godoc
// @Summary 当前生命值
// @Description 按回复规则计算当前生命值，不写入数据库
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.LivesStatus} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/lives [get]
func (c *LivesController) GetLives(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.Lives.Status(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
