package controller

import (
	"context"
	"ravencode_backend/internal/model"
	"ravencode_backend/internal/quiz"
	"ravencode_backend/internal/service"
	"ravencode_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeRunner interface {
	Start(ctx context.Context, userID, courseID, lessonID uint) (*service.StartResult, error)
	Submit(ctx context.Context, userID uint, req service.SubmitRequest) (*service.SubmitResult, error)
}

type HistoryReader interface {
	List(ctx context.Context, userID uint, limit int) ([]model.PracticeHistory, error)
}

type PracticeController struct {
	Practice PracticeRunner
	History  HistoryReader
}

func NewPracticeController(practice PracticeRunner, history HistoryReader) *PracticeController {
	return &PracticeController{Practice: practice, History: history}
}

// swagger:model StartPracticeRequest
type StartPracticeRequest struct {
	CourseID uint `json:"courseId"`
	LessonID uint `json:"lessonId"`
}

// StartPractice godoc
// @Summary 开始练习
// @Description 扣除一条生命并为课时生成 5 道题目
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartPracticeRequest true "课程与课时"
// @Success 200 {object} util.Response{data=service.StartResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "生命值不足"
// @Failure 404 {object} util.Response "课程或课时不存在"
// @Failure 409 {object} util.Response "并发冲突"
// @Failure 500 {object} util.Response "题目生成失败"
// @Router /api/practice/start [post]
func (c *PracticeController) StartPractice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartPracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Practice.Start(ctx.Request.Context(), claims.UserID, req.CourseID, req.LessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// swagger:model SubmitPracticeRequest
type SubmitPracticeRequest struct {
	CourseID  uint                   `json:"courseId"`
	LessonID  uint                   `json:"lessonId"`
	Questions []quiz.Question        `json:"questions"`
	Answers   map[string]quiz.Answer `json:"answers"`
}

// SubmitPractice godoc
// @Summary 提交练习
// @Description 批改答案，更新连续学习天数、经验值与课时进度
// @Tags 练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitPracticeRequest true "题目与作答"
// @Success 200 {object} util.Response{data=service.SubmitResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "用户或课时不存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/practice/submit [post]
func (c *PracticeController) SubmitPractice(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitPracticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Practice.Submit(ctx.Request.Context(), claims.UserID, service.SubmitRequest{
		CourseID:  req.CourseID,
		LessonID:  req.LessonID,
		Questions: req.Questions,
		Answers:   req.Answers,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// GetHistory godoc
// @Summary 练习记录
// @Description 按时间倒序返回当前用户的练习记录
// @Tags 练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数 (1-100，默认 20)"
// @Success 200 {object} util.Response{data=[]model.PracticeHistory} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/practice/history [get]
func (c *PracticeController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), service.DefaultHistoryLimit, service.MaxHistoryLimit)
	items, err := c.History.List(ctx.Request.Context(), claims.UserID, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
