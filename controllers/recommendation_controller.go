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

const recoRequestTimeout = 10 * time.Second

// RecommendationController 处理按保险号维护的建议文本请求
type RecommendationController struct {
	BaseControllerImpl
}

// NewRecommendationController 创建一个新的建议控制器
func (f *ControllerFactory) NewRecommendationController(ctx *gin.Context) *RecommendationController {
	return &RecommendationController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// HandleRecommendationFunc 返回一个处理建议请求的Gin处理函数
func HandleRecommendationFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewRecommendationController(ctx)

		switch method {
		case "getRecommendations":
			controller.GetRecommendations()
		case "addRecommendation":
			controller.AddRecommendation()
		case "deleteRecommendation":
			controller.DeleteRecommendation()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

// GetRecommendations 分页查询建议列表
// @Summary      List Recommendations
// @Tags         Recommendation
// @Produce      json
// @Param        pageNum query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10)
// @Success      200  {object}  map[string]interface{} "Recommendations with pagination"
// @Router       /recommendations [get]
// @Security     BearerAuth
func (c *RecommendationController) GetRecommendations() {
	var pagination models.PaginationQuery
	_ = c.Context.ShouldBindQuery(&pagination)
	if pagination.PageNum <= 0 {
		pagination.PageNum = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 10
	}

	recoService := c.Container.GetService("recommendation").(services.InterfaceRecommendationService)
	recos, total, err := recoService.GetAllRecommendations(pagination.PageNum, pagination.PageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{
		"recommendations": recos,
		"pagination":      models.NewPaginationResult(int(total), pagination.PageNum, pagination.PageSize),
	})
}

// AddRecommendationRequest 表示创建建议的请求体
type AddRecommendationRequest struct {
	Insurance string `json:"insurance" binding:"required" example:"INS9"`
	Reco      string `json:"reco" binding:"required" example:"Artemisinin-based combination therapy"`
}

// AddRecommendation 新增建议。同一保险号允许多条建议
// @Summary      Create Recommendation
// @Tags         Recommendation
// @Accept       json
// @Produce      json
// @Param        recommendation body AddRecommendationRequest true "Recommendation fields"
// @Success      200  {object}  map[string]interface{} "Created recommendation"
// @Router       /recommendations [post]
// @Security     BearerAuth
func (c *RecommendationController) AddRecommendation() {
	var req AddRecommendationRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "无效的请求参数: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), recoRequestTimeout)
	defer cancel()

	reco := models.Recommendation{
		Insurance: req.Insurance,
		Reco:      req.Reco,
	}

	recoService := c.Container.GetService("recommendation").(services.InterfaceRecommendationService)
	if err := recoService.CreateRecommendation(ctx, &reco); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"recommendation": reco})
}

// DeleteRecommendation 删除建议
// @Summary      Delete Recommendation
// @Tags         Recommendation
// @Produce      json
// @Param        id path int true "Recommendation ID"
// @Success      200  {object}  map[string]interface{} "Deleted"
// @Router       /recommendations/{id} [delete]
// @Security     BearerAuth
func (c *RecommendationController) DeleteRecommendation() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "无效的建议ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Context.Request.Context(), recoRequestTimeout)
	defer cancel()

	recoService := c.Container.GetService("recommendation").(services.InterfaceRecommendationService)
	if err := recoService.DeleteRecommendation(ctx, uint(id)); err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}

	response.Success(c.Context, gin.H{"deleted": id})
}
