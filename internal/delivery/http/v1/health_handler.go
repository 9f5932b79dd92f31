package v1

import (
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	public.GET("/", handler.Root)
	public.GET("/health", handler.Health)
}

// Root godoc
// @Summary      API info
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.APIInfo}
// @Router       / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	info := h.healthUC.Info()
	response.Success(c, http.StatusOK, info.Message, info)
}

// Health godoc
// @Summary      Health check
// @Description  Reports database connectivity.
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthStatus}
// @Failure      503  {object}  response.Response{data=domain.HealthStatus}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	if !status.Healthy() {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success:   false,
			Message:   "Database unavailable",
			Data:      status,
			RequestID: c.GetString(string(domain.KeyRequestID)),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}
