package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type statusResponse struct {
	Status string `json:"status"`
}

// StatusHandler answers availability probes for the API.
type StatusHandler struct{}

func NewStatusHandler() *StatusHandler {
	return &StatusHandler{}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "Available"})
}
