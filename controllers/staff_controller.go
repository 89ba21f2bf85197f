package controllers

import (
	"context"
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

const staffRequestTimeout = 10 * time.Second

// StaffController 处理医生、检验员与前台员工的管理请求
type StaffController struct {
	BaseControllerImpl
}

// NewStaffController 创建一个新的员工控制器
func (f *ControllerFactory) NewStaffController(ctx *gin.Context) *StaffController {
	return &StaffController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleStaffFunc 返回一个处理员工请求的Gin处理函数
func HandleStaffFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewStaffController(ctx)

		switch method {
		case "getDoctors":
			controller.GetDoctors()
		case "addDoctor":
			controller.AddDoctor()
		case "deleteDoctor":
			controller.DeleteDoctor()
		case "getLabStaff":
			controller.GetLabStaff()
		case "addLabStaff":
			controller.AddLabStaff()
		case "deleteLabStaff":
			controller.DeleteLabStaff()
		case "getOfficeStaff":
			controller.GetOfficeStaff()
		case "addOfficeStaff":
			controller.AddOfficeStaff()
		case "deleteOfficeStaff":
			controller.DeleteOfficeStaff()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// StaffRequest 表示创建员工的通用请求体
type StaffRequest struct {
	FName     string `json:"fname" binding:"required" example:"Grace"`
	LName     string `json:"lname" example:"Otieno"`
	Insurance string `json:"insurance" example:"STF01"`
	Phone     string `json:"phone" example:"0712345678"`
}

func (c *StaffController) bindPagination() models.PaginationQuery {
	var pagination models.PaginationQuery
	_ = c.Context.ShouldBindQuery(&pagination)
	if pagination.PageNum <= 0 {
		pagination.PageNum = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 10
	}
	return pagination
}

func (c *StaffController) parseIDParam() (uint, bool) {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "无效的员工ID")
		return 0, false
	}
	return uint(id), true
}

// GetDoctors 分页查询医生列表
// @Summary      List Doctors
// @Tags         Staff
// @Produce      json
// @Param        pageNum query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10)
// @Success      200  {object}  map[string]interface{} "Doctors with pagination"
// @Router       /doctors [get]
// @Security     BearerAuth
func (c *StaffController) GetDoctors() {
	pagination := c.bindPagination()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	doctors, total, err := staffService.GetAllDoctors(pagination.PageNum, pagination.PageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"doctors":    doctors,
		"pagination": models.NewPaginationResult(int(total), pagination.PageNum, pagination.PageSize),
	})
}

// AddDoctor 创建医生并在同一事务内创建配对登录账户
// @Summary      Create Doctor
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        doctor body StaffRequest true "Doctor fields"
// @Success      200  {object}  map[string]interface{} "Created doctor"
// @Failure      409  {object}  ErrorResponse "Username already taken"
// @Router       /doctors [post]
// @Security     BearerAuth
func (c *StaffController) AddDoctor() {
	var req StaffRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	doctor := models.Doctor{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.CreateDoctor(ctx, &doctor); err != nil {
		response.FailWithMessage(c.Context, code.ErrStaffAlreadyExist, err.Error(), nil)
		return
	}

	response.Success(c.Context, gin.H{"doctor": doctor})
}

// DeleteDoctor 删除医生
// @Summary      Delete Doctor
// @Tags         Staff
// @Produce      json
// @Param        id path int true "Doctor ID"
// @Success      200  {object}  map[string]interface{} "Deleted"
// @Router       /doctors/{id} [delete]
// @Security     BearerAuth
func (c *StaffController) DeleteDoctor() {
	id, ok := c.parseIDParam()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.DeleteDoctor(ctx, id); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"deleted": id})
}

// GetLabStaff 分页查询检验员列表
// @Summary      List Lab Staff
// @Tags         Staff
// @Produce      json
// @Param        pageNum query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10)
// @Success      200  {object}  map[string]interface{} "Lab staff with pagination"
// @Router       /labs [get]
// @Security     BearerAuth
func (c *StaffController) GetLabStaff() {
	pagination := c.bindPagination()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, total, err := staffService.GetAllLabStaff(pagination.PageNum, pagination.PageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"lab_staff":  staff,
		"pagination": models.NewPaginationResult(int(total), pagination.PageNum, pagination.PageSize),
	})
}

// AddLabStaff 创建检验员并在同一事务内创建配对登录账户
// @Summary      Create Lab Staff
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        staff body StaffRequest true "Lab staff fields"
// @Success      200  {object}  map[string]interface{} "Created lab staff"
// @Failure      409  {object}  ErrorResponse "Username already taken"
// @Router       /labs [post]
// @Security     BearerAuth
func (c *StaffController) AddLabStaff() {
	var req StaffRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	staff := models.LabStaff{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.CreateLabStaff(ctx, &staff); err != nil {
		response.FailWithMessage(c.Context, code.ErrStaffAlreadyExist, err.Error(), nil)
		return
	}

	response.Success(c.Context, gin.H{"lab_staff": staff})
}

// DeleteLabStaff 删除检验员
// @Summary      Delete Lab Staff
// @Tags         Staff
// @Produce      json
// @Param        id path int true "Lab staff ID"
// @Success      200  {object}  map[string]interface{} "Deleted"
// @Router       /labs/{id} [delete]
// @Security     BearerAuth
func (c *StaffController) DeleteLabStaff() {
	id, ok := c.parseIDParam()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.DeleteLabStaff(ctx, id); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"deleted": id})
}

// GetOfficeStaff 分页查询前台员工列表
// @Summary      List Office Staff
// @Tags         Staff
// @Produce      json
// @Param        pageNum query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10)
// @Success      200  {object}  map[string]interface{} "Office staff with pagination"
// @Router       /offices [get]
// @Security     BearerAuth
func (c *StaffController) GetOfficeStaff() {
	pagination := c.bindPagination()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	staff, total, err := staffService.GetAllOfficeStaff(pagination.PageNum, pagination.PageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"office_staff": staff,
		"pagination":   models.NewPaginationResult(int(total), pagination.PageNum, pagination.PageSize),
	})
}

// AddOfficeStaff 创建前台员工并在同一事务内创建配对登录账户
// @Summary      Create Office Staff
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        staff body StaffRequest true "Office staff fields"
// @Success      200  {object}  map[string]interface{} "Created office staff"
// @Failure      409  {object}  ErrorResponse "Username already taken"
// @Router       /offices [post]
// @Security     BearerAuth
func (c *StaffController) AddOfficeStaff() {
	var req StaffRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	staff := models.OfficeStaff{
		FName:     req.FName,
		LName:     req.LName,
		Insurance: req.Insurance,
		Phone:     req.Phone,
	}

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.CreateOfficeStaff(ctx, &staff); err != nil {
		response.FailWithMessage(c.Context, code.ErrStaffAlreadyExist, err.Error(), nil)
		return
	}

	response.Success(c.Context, gin.H{"office_staff": staff})
}

// DeleteOfficeStaff 删除前台员工
// @Summary      Delete Office Staff
// @Tags         Staff
// @Produce      json
// @Param        id path int true "Office staff ID"
// @Success      200  {object}  map[string]interface{} "Deleted"
// @Router       /offices/{id} [delete]
// @Security     BearerAuth
func (c *StaffController) DeleteOfficeStaff() {
	id, ok := c.parseIDParam()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), staffRequestTimeout)
	defer cancel()

	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)
	if err := staffService.DeleteOfficeStaff(ctx, id); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"deleted": id})
}
