package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/crediario/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	db        HealthChecker
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db HealthChecker) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		db:        db,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Crediario Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Crediario Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"up"`
}

// Health godoc
// @ID           healthCheck
// @Summary      Health check
// @Description  Reports service and database health
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /system/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Database: "up"}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "down"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message":   "pong",
		"timestamp": time.Now().Format(time.RFC3339),
	}))
}
