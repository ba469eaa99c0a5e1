package controller

import (
	"context"
	"ravencode_backend/internal/service"
	"ravencode_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WeeklySummaryRunner interface {
	RunWeekly(ctx context.Context) (*service.WeeklyReport, error)
}

type JobController struct {
	Summary WeeklySummaryRunner
}

func NewJobController(summary WeeklySummaryRunner) *JobController {
	return &JobController{Summary: summary}
}

// RunWeeklySummary godoc
// @Summary 触发每周学习总结 (管理员)
// @Description 汇总最近 7 天的练习记录并给每位用户发送邮件，单个用户失败不会中断任务
// @Tags 管理员
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.WeeklyReport} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 403 {object} util.Response "权限不足"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/admin/jobs/weekly-summary [post]
func (c *JobController) RunWeeklySummary(ctx *gin.Context) {
	report, err := c.Summary.RunWeekly(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
