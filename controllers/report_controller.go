package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"malaria-http-service/internal/error/code"
	"malaria-http-service/internal/error/response"
	"malaria-http-service/services"
	"malaria-http-service/services/container"
)

const reportRequestTimeout = 20 * time.Second

// ReportController 处理报告生成与打印分发的请求
type ReportController struct {
	BaseControllerImpl
}

// NewReportController 创建一个新的报告控制器
func (f *ControllerFactory) NewReportController(ctx *gin.Context) *ReportController {
	return &ReportController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleReportFunc 返回一个处理报告请求的Gin处理函数
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewReportController(ctx)

		switch method {
		case "print":
			controller.Print()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// Print 生成PDF报告并提交打印。
// 打印失败不影响报告生成，以警告形式返回
// @Summary      Generate And Print Case Report
// @Description  Render the case record to a PDF document and hand it to the print facility; joined=true includes the recommendation text
// @Tags         Report
// @Produce      json
// @Param        id path int true "Case record ID"
// @Param        joined query bool false "Include recommendation via insurance join" default(false)
// @Success      200  {object}  map[string]interface{} "Document path, print status and optional warning"
// @Failure      404  {object}  ErrorResponse "Record not found"
// @Failure      500  {object}  ErrorResponse "Report rendering failure"
// @Router       /patients/{id}/print [post]
// @Security     BearerAuth
func (c *ReportController) Print() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "无效的病例ID")
		return
	}
	joined, _ := strconv.ParseBool(c.Context.DefaultQuery("joined", "false"))

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), reportRequestTimeout)
	defer cancel()

	diagnosis := c.Container.GetService("diagnosis").(services.InterfaceDiagnosisService)
	outcome, err := diagnosis.ReportAndPrint(ctx, uint(id), joined)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingRecord):
			response.Fail(c.Context, code.ErrPatientNotFound, nil)
		case errors.Is(err, services.ErrPersistence):
			response.Fail(c.Context, code.ErrDatabase, nil)
		default:
			response.Fail(c.Context, code.ErrReportFailed, nil)
		}
		return
	}

	response.Success(c.Context, outcome)
}
