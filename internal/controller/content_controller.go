package controller

import (
	"context"
	"ravencode_backend/internal/service"
	"ravencode_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseCatalog interface {
	ListCourses(ctx context.Context, userID uint) ([]service.CourseSummary, error)
	CourseOutline(ctx context.Context, userID, courseID uint) (*service.CourseOutline, error)
}

type ContentController struct {
	Content CourseCatalog
}

func NewContentController(content CourseCatalog) *ContentController {
	return &ContentController{Content: content}
}

// ListCourses godoc
// @Summary 课程列表
// @Description 返回全部课程及当前用户已完成的课时数
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CourseSummary} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/courses [get]
func (c *ContentController) ListCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.Content.ListCourses(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程大纲
// @Description 返回课程的课时及每个课时的状态 (locked/unlocked/completed)
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseOutline} "成功"
// @Failure 400 {object} util.Response "无效的课程ID"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *ContentController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	outline, err := c.Content.CourseOutline(ctx.Request.Context(), claims.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, outline)
}
