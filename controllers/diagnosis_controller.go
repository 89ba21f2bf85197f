package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"malaria-http-service/internal/error/code"
	"malaria-http-service/internal/error/response"
	"malaria-http-service/models"
	"malaria-http-service/services"
	"malaria-http-service/services/container"
)

// 单次诊断请求的超时上限，覆盖预处理、推理与入库
const diagnosisTimeout = 30 * time.Second

// DiagnosisController 处理血涂片分类相关的请求
type DiagnosisController struct {
	BaseControllerImpl
}

// NewDiagnosisController 创建一个新的诊断控制器
func (f *ControllerFactory) NewDiagnosisController(ctx *gin.Context) *DiagnosisController {
	return &DiagnosisController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleDiagnosisFunc 返回一个处理诊断请求的Gin处理函数
func HandleDiagnosisFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewDiagnosisController(ctx)

		switch method {
		case "predict":
			controller.Predict()
		case "predictAndCreate":
			controller.PredictAndCreate()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// Predict 仅分类，不建档
// @Summary      Classify Blood Smear Image
// @Description  Upload a blood smear image and get the infection verdict without creating a case record
// @Tags         Diagnosis
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Blood smear image (png/jpg/jpeg)"
// @Success      200  {object}  map[string]interface{} "Verdict with label and score"
// @Failure      400  {object}  ErrorResponse "Unsupported image format"
// @Failure      500  {object}  ErrorResponse "Inference failure"
// @Router       /diagnosis/predict [post]
// @Security     BearerAuth
func (c *DiagnosisController) Predict() {
	fileHeader, err := c.Context.FormFile("file")
	if err != nil {
		response.ParamError(c.Context, "缺少上传文件")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.ParamError(c.Context, "无法读取上传文件")
		return
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), diagnosisTimeout)
	defer cancel()

	diagnosis := c.Container.GetService("diagnosis").(services.InterfaceDiagnosisService)
	verdict, err := diagnosis.ClassifyOnly(ctx, src, fileHeader.Filename)
	if err != nil {
		failDiagnosis(c.Context, err)
		return
	}

	response.Success(c.Context, gin.H{
		"label": verdict.Label,
		"score": verdict.Score,
	})
}

// PredictAndCreateRequest 表示分类并建档的表单字段
type PredictAndCreateRequest struct {
	FName     string `form:"fname" binding:"required" example:"Ann"`
	LName     string `form:"lname" example:"Mwangi"`
	Insurance string `form:"insurance" example:"INS9"`
	Phone     string `form:"phone" example:"0712345678"`
}

// PredictAndCreate 分类并建档。先推理后入库，推理失败不会产生记录
// @Summary      Classify And Create Case Record
// @Description  Upload a blood smear image with patient fields; the verdict is persisted on the new case record
// @Tags         Diagnosis
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Blood smear image (png/jpg/jpeg)"
// @Param        fname formData string true "First name"
// @Param        lname formData string false "Last name"
// @Param        insurance formData string false "Insurance identifier"
// @Param        phone formData string false "Contact number"
// @Success      200  {object}  map[string]interface{} "Created case record with verdict"
// @Failure      400  {object}  ErrorResponse "Unsupported image format or bad fields"
// @Failure      500  {object}  ErrorResponse "Inference or persistence failure"
// @Router       /diagnosis/patients [post]
// @Security     BearerAuth
func (c *DiagnosisController) PredictAndCreate() {
	var req PredictAndCreateRequest
	if err := c.Context.ShouldBind(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	fileHeader, err := c.Context.FormFile("file")
	if err != nil {
		response.ParamError(c.Context, "缺少上传文件")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.ParamError(c.Context, "无法读取上传文件")
		return
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), diagnosisTimeout)
	defer cancel()

	patient := models.Patient{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
	}

	diagnosis := c.Container.GetService("diagnosis").(services.InterfaceDiagnosisService)
	verdict, err := diagnosis.ClassifyAndCreate(ctx, src, fileHeader.Filename, &patient)
	if err != nil {
		failDiagnosis(c.Context, err)
		return
	}

	response.Success(c.Context, gin.H{
		"patient": patient,
		"verdict": verdict,
	})
}

// failDiagnosis 将流水线错误映射到对应的错误码
func failDiagnosis(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		response.Fail(ctx, code.ErrUnsupportedFormat, nil)
	case errors.Is(err, services.ErrUploadTooLarge):
		response.Fail(ctx, code.ErrUploadTooLarge, nil)
	case errors.Is(err, services.ErrInferenceFailure):
		response.Fail(ctx, code.ErrInferenceFailure, nil)
	case errors.Is(err, services.ErrMissingRecord):
		response.Fail(ctx, code.ErrPatientNotFound, nil)
	case errors.Is(err, services.ErrPersistence):
		response.Fail(ctx, code.ErrDatabase, nil)
	default:
		response.ServerError(ctx)
	}
}
