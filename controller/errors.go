package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/repository"
	"github.com/joeyave/club-admin/service"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotApproved):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abort writes the error body. The client keeps its last good result, so the
// message is meant to be shown as is.
func abort(ctx *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(ctx.Request.Context()).Error().Err(err).Msg("Request failed")
	}

	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(ctx *gin.Context) (bson.ObjectID, bool) {
	ID, err := bson.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, err)
		return bson.ObjectID{}, false
	}
	return ID, true
}
