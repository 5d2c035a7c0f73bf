package handler

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/api/response"
	"github.com/Freeeeeet/consultation_scheduler/internal/dto"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfigHandler конфигурация доступности ресурса
type ConfigHandler struct {
	availability AvailabilityService
	authorizer   service.Authorizer
	logger       *zap.Logger
}

func NewConfigHandler(availability AvailabilityService, authorizer service.Authorizer, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{availability: availability, authorizer: authorizer, logger: logger}
}

// GetConfig GET /api/v1/resources/:id/config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.availability.GetConfig(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, cfg)
}

// SaveConfig PUT /api/v1/resources/:id/config (оператор)
func (h *ConfigHandler) SaveConfig(c *gin.Context) {
	resourceID := c.Param("id")
	if !h.requireOperator(c, resourceID, "update availability config") {
		return
	}

	var req dto.SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	draft, err := req.ToModel()
	if err != nil {
		respondBindError(c, err)
		return
	}

	cfg, err := h.availability.SaveConfig(c.Request.Context(), resourceID, draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, cfg)
}

// Reconcile GET /api/v1/resources/:id/bookings/reconcile (оператор)
func (h *ConfigHandler) Reconcile(c *gin.Context) {
	resourceID := c.Param("id")
	if !h.requireOperator(c, resourceID, "reconcile bookings") {
		return
	}

	items, err := h.availability.Reconcile(c.Request.Context(), resourceID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, items)
}

func (h *ConfigHandler) requireOperator(c *gin.Context, resourceID, action string) bool {
	actorID, ok := MustGetActorID(c)
	if !ok {
		return false
	}

	isOperator, err := h.authorizer.IsOperator(c.Request.Context(), resourceID, actorID)
	if err != nil {
		respondError(c, h.logger, err)
		return false
	}
	if !isOperator {
		respondError(c, h.logger, &service.NotAuthorizedError{ActorID: actorID, Action: action})
		return false
	}
	return true
}
