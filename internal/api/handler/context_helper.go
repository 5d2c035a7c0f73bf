package handler

import (
	"net/http"

	"github.com/Freeeeeet/consultation_scheduler/internal/api/middleware"
	"github.com/Freeeeeet/consultation_scheduler/internal/api/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MustGetActorID достаёт участника, положенного JWT middleware.
// При ok=false ответ 401 уже записан.
func MustGetActorID(c *gin.Context) (string, bool) {
	actorID := c.GetString(middleware.ActorIDKey)
	if actorID == "" {
		response.Unauthorized(c, "unauthenticated")
		return "", false
	}
	return actorID, true
}

// bookingIDParam разбирает :id как UUID бронирования
func bookingIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorWithData(c, http.StatusBadRequest, response.CodeValidation, "validation failed", map[string]string{"id": "must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
