package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payhook/internal/shared/biztime"
	"payhook/internal/shared/utils"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "service is healthy", gin.H{
		"status": "ok",
		"time":   biztime.NowUTC(),
	})
}
