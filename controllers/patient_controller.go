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
	"malaria-http-service/models"
	"malaria-http-service/services"
	"malaria-http-service/services/container"
)

const patientRequestTimeout = 10 * time.Second

// PatientController 处理病例记录相关的请求
type PatientController struct {
	BaseControllerImpl
}

// NewPatientController 创建一个新的病例控制器
func (f *ControllerFactory) NewPatientController(ctx *gin.Context) *PatientController {
	return &PatientController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandlePatientFunc 返回一个处理病例请求的Gin处理函数
func HandlePatientFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewPatientController(ctx)

		switch method {
		case "getPatients":
			controller.GetPatients()
		case "getPatientsJoined":
			controller.GetPatientsJoined()
		case "getPatient":
			controller.GetPatient()
		case "addPatient":
			controller.AddPatient()
		case "intake":
			controller.Intake()
		case "updateResult":
			controller.UpdateResult()
		case "deletePatient":
			controller.DeletePatient()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GetPatients 分页查询病例列表
// @Summary      List Case Records
// @Description  Get paginated case records ordered by id
// @Tags         Patient
// @Produce      json
// @Param        pageNum query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10)
// @Success      200  {object}  map[string]interface{} "Case records with pagination"
// @Router       /patients [get]
// @Security     BearerAuth
func (c *PatientController) GetPatients() {
	var pagination models.PaginationQuery
	if err := c.Context.ShouldBindQuery(&pagination); err != nil {
		response.ParamError(c.Context, "无效的分页参数")
		return
	}
	if pagination.PageNum <= 0 {
		pagination.PageNum = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 10
	}

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	patients, total, err := patientService.GetAllPatients(pagination.PageNum, pagination.PageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"patients":   patients,
		"pagination": models.NewPaginationResult(int(total), pagination.PageNum, pagination.PageSize),
	})
}

// GetPatientsJoined 查询病例与建议的联合视图。
// 无匹配病例的建议行同样出现在结果中，病例字段为空
// @Summary      List Case Records Joined With Recommendations
// @Description  Right-join view of case records against recommendation rows keyed by insurance
// @Tags         Patient
// @Produce      json
// @Success      200  {object}  map[string]interface{} "Joined rows"
// @Router       /patients/joined [get]
// @Security     BearerAuth
func (c *PatientController) GetPatientsJoined() {
	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	rows, err := patientService.ListPatientsJoinedWithReco(ctx)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"rows": rows})
}

// GetPatient 按ID查询单个病例
// @Summary      Get Case Record
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Case record ID"
// @Success      200  {object}  map[string]interface{} "Case record"
// @Failure      404  {object}  ErrorResponse "Record not found"
// @Router       /patients/{id} [get]
// @Security     BearerAuth
func (c *PatientController) GetPatient() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "无效的病例ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	patient, err := patientService.GetPatientByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMissingRecord) {
			response.Fail(c.Context, code.ErrPatientNotFound, nil)
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"patient": patient})
}

// AddPatientRequest 表示创建完整病例的请求体
type AddPatientRequest struct {
	FName     string `json:"fname" binding:"required" example:"Ann"`
	LName     string `json:"lname" example:"Mwangi"`
	Insurance string `json:"insurance" example:"INS9"`
	Phone     string `json:"phone" example:"0712345678"`
	Result    string `json:"result" example:"Infected"`
}

// AddPatient 创建病例；未给出结论时落为待定哨兵值
// @Summary      Create Case Record
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        patient body AddPatientRequest true "Case record fields"
// @Success      200  {object}  map[string]interface{} "Created record"
// @Failure      400  {object}  ErrorResponse "Invalid fields"
// @Router       /patients [post]
// @Security     BearerAuth
func (c *PatientController) AddPatient() {
	var req AddPatientRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}
	if req.Result != "" && !models.IsKnownResult(req.Result) {
		response.ParamError(c.Context, "未知的诊断结论: "+req.Result)
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patient := models.Patient{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
		Result:    req.Result,
	}

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	if err := patientService.CreatePatient(ctx, &patient); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"patient": patient})
}

// IntakeRequest 表示接诊登记的请求体，不包含诊断结论
type IntakeRequest struct {
	FName     string `json:"fname" binding:"required" example:"Ann"`
	LName     string `json:"lname" example:"Mwangi"`
	Insurance string `json:"insurance" example:"INS9"`
	Phone     string `json:"phone" example:"0712345678"`
}

// Intake 前台接诊登记，结论固定落为待定哨兵值
// @Summary      Intake Case Record
// @Description  Register a patient before any diagnosis; the result is set to the pending sentinel
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        patient body IntakeRequest true "Intake fields"
// @Success      200  {object}  map[string]interface{} "Created record"
// @Router       /patients/intake [post]
// @Security     BearerAuth
func (c *PatientController) Intake() {
	var req IntakeRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patient := models.Patient{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
		Result:    models.ResultPending,
	}

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	if err := patientService.CreatePatient(ctx, &patient); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"patient": patient})
}

// UpdateResultRequest 表示按保险号批量更新结论的请求体
type UpdateResultRequest struct {
	Insurance string `json:"insurance" binding:"required" example:"INS9"`
	Result    string `json:"result" binding:"required" example:"Uninfected"`
}

// UpdateResult 按保险号批量更新诊断结论
// @Summary      Update Results By Insurance
// @Description  Set the diagnosis result on every case record sharing the given insurance identifier
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Param        update body UpdateResultRequest true "Insurance and result"
// @Success      200  {object}  map[string]interface{} "Number of records updated"
// @Failure      400  {object}  ErrorResponse "Unknown result value"
// @Router       /patients/result [put]
// @Security     BearerAuth
func (c *PatientController) UpdateResult() {
	var req UpdateResultRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	affected, err := patientService.UpdateResultByInsurance(ctx, req.Insurance, req.Result)
	if err != nil {
		if errors.Is(err, services.ErrPersistence) {
			response.Fail(c.Context, code.ErrDatabase, nil)
			return
		}
		response.ParamError(c.Context, err.Error())
		return
	}

	response.Success(c.Context, gin.H{"updated": affected})
}

// DeletePatient 删除病例；目标不存在时同样视为成功
// @Summary      Delete Case Record
// @Tags         Patient
// @Produce      json
// @Param        id path int true "Case record ID"
// @Success      200  {object}  map[string]interface{} "Deleted"
// @Router       /patients/{id} [delete]
// @Security     BearerAuth
func (c *PatientController) DeletePatient() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "无效的病例ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), patientRequestTimeout)
	defer cancel()

	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	if err := patientService.DeletePatient(ctx, uint(id)); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"deleted": id})
}
