package handler

import (
	"errors"
	"net/http"

	"jobtracker/internal/board"
	"jobtracker/internal/middleware"
	"jobtracker/internal/repository"
	"jobtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// respondError translates a service error into a JSON error response.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	var capErr *board.CapacityExceededError
	switch {
	case errors.As(err, &capErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"column": capErr.Column,
			"limit":  capErr.Limit,
		})
	case errors.Is(err, board.ErrConflict),
		errors.Is(err, board.ErrDragInProgress),
		errors.Is(err, board.ErrDuplicateCard):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrNotFound),
		errors.Is(err, repository.ErrBoardNotFound),
		errors.Is(err, repository.ErrCardNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrInvalidColumn):
		logger.WithFields(log.Fields{"path": c.FullPath(), "error": err}).Error("request referenced an unknown column")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupported),
		errors.Is(err, board.ErrInvalidResult),
		errors.Is(err, board.ErrNoDrag):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBoardLimit):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser reads the user id stored by the auth middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// boardRequest resolves the caller and the :id board parameter.
func boardRequest(c *gin.Context) (userID, boardID uuid.UUID, ok bool) {
	userID, ok = currentUser(c)
	if !ok {
		return
	}
	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return uuid.Nil, uuid.Nil, false
	}
	return userID, boardID, true
}
