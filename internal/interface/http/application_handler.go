package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
	"github.com/oksasatya/hireboard/pkg/response"
)

type ApplicationHandler struct {
	Svc    *application.ApplicationService
	Logger logrus.FieldLogger
}

func NewApplicationHandler(svc *application.ApplicationService, logger logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Logger: logger}
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewed shortlisted rejected hired"`
}

// Mine GET /applications/me
func (h *ApplicationHandler) Mine(c *gin.Context) {
	apps, err := h.Svc.ListMine(c.Request.Context(), c.GetString(middleware.CtxAccountID))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationViews(apps), "applications", response.Meta{Count: len(apps)})
}

// Get GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationView(a), "application", nil)
}

// UpdateStatus PATCH /applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	a, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), entity.ApplicationStatus(req.Status))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationView(a), "status updated", nil)
}

// Withdraw DELETE /applications/:id
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	a, err := h.Svc.Withdraw(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toApplicationView(a), "application withdrawn", nil)
}
