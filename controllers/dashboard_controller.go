package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"malaria-http-service/internal/error/code"
	"malaria-http-service/internal/error/response"
	"malaria-http-service/models"
	"malaria-http-service/services"
	"malaria-http-service/services/container"
)

// 仪表盘统计的缓存时长
const dashboardCacheTTL = 30 * time.Second

// DashboardCounts 表示按角色裁剪的仪表盘统计
type DashboardCounts struct {
	Patients    *int64 `json:"patients,omitempty"`
	Doctors     *int64 `json:"doctors,omitempty"`
	LabStaff    *int64 `json:"lab_staff,omitempty"`
	OfficeStaff *int64 `json:"office_staff,omitempty"`
}

// DashboardController 处理角色仪表盘统计请求
type DashboardController struct {
	BaseControllerImpl
}

// NewDashboardController 创建一个新的仪表盘控制器
func (f *ControllerFactory) NewDashboardController(ctx *gin.Context) *DashboardController {
	return &DashboardController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleDashboardFunc 返回一个处理仪表盘请求的Gin处理函数
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewDashboardController(ctx)

		switch method {
		case "getCounts":
			controller.GetCounts()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GetCounts 返回当前角色可见的统计数字，带Redis短时缓存。
// 管理员可见全部，医生与检验员可见病例数，前台可见病例数与医生数
// @Summary      Role Dashboard Counts
// @Description  Aggregate counts scoped to the caller's role, cached briefly in Redis
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{} "Counts visible to the role"
// @Router       /dashboard [get]
// @Security     BearerAuth
func (c *DashboardController) GetCounts() {
	role, _ := c.Context.Get("role")
	roleName, _ := role.(string)
	if roleName == "" {
		response.Unauthorized(c.Context)
		return
	}

	redisService, _ := c.Container.GetService("redis").(services.InterfaceRedisService)
	if redisService != nil {
		var cached DashboardCounts
		if err := redisService.GetDashboardCounts(roleName, &cached); err == nil {
			response.Success(c.Context, gin.H{"counts": cached, "cached": true})
			return
		}
	}

	counts, err := c.collectCounts(roleName)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	if redisService != nil {
		_ = redisService.CacheDashboardCounts(roleName, counts, dashboardCacheTTL)
	}

	response.Success(c.Context, gin.H{"counts": counts, "cached": false})
}

func (c *DashboardController) collectCounts(role string) (*DashboardCounts, error) {
	patientService := c.Container.GetService("patient").(services.InterfacePatientService)
	staffService := c.Container.GetService("staff").(services.InterfaceStaffService)

	counts := &DashboardCounts{}

	patients, err := patientService.CountPatients()
	if err != nil {
		return nil, err
	}
	counts.Patients = &patients

	if role == models.RoleAdmin || role == models.RoleOffice {
		doctors, err := staffService.CountDoctors()
		if err != nil {
			return nil, err
		}
		counts.Doctors = &doctors
	}

	if role == models.RoleAdmin {
		labs, err := staffService.CountLabStaff()
		if err != nil {
			return nil, err
		}
		counts.LabStaff = &labs

		offices, err := staffService.CountOfficeStaff()
		if err != nil {
			return nil, err
		}
		counts.OfficeStaff = &offices
	}

	return counts, nil
}
