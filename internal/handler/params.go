package handler

import (
	"enddit/backend/internal/apperr"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name, message string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.BadRequest(message)
	}
	return uint(id), nil
}

func uuidParam(c *gin.Context, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.BadRequest(message)
	}
	return id, nil
}
