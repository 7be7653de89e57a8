package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/service"
)

// badRequest are the errors caused by what the client sent.
var badRequest = []error{
	layout.ErrDimensionOutOfRange,
	layout.ErrOutOfBounds,
	layout.ErrMissingPlotAttributes,
	layout.ErrInvalidCellAttribute,
	layout.ErrDuplicatePlotNumber,
	layout.ErrUnknownCellType,
	layout.ErrUnknownPlotStatus,
	layout.ErrMalformedGrid,
	service.ErrNotAPlot,
}

// respondError writes the status and body for err.
//
//	*layout.ValidationError  -> 422 with the failed rule
//	layout / cell errors     -> 400
//	service.ErrNotFound      -> 404
//	*service.PersistenceError -> 503, the client may retry
//	anything else            -> 500
func respondError(c *gin.Context, logger *zap.Logger, what string, err error) {
	var verr *layout.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Reason, "rule": verr.Rule})
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}

	var perr *service.PersistenceError
	if errors.As(err, &perr) {
		// The service already logged the cause.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": perr.Error() + ", please retry"})
		return
	}

	logger.Error("request failed", zap.String("resource", what), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// respondBindError answers a body that could not be read or bound: 413 when
// the body limit cut it off, 400 otherwise.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func isStorageError(err error) bool {
	var perr *service.PersistenceError
	return errors.As(err, &perr)
}
