package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/service"
)

type ModerationController struct {
	ModerationService *service.ModerationService
}

func (h *ModerationController) Registration(ctx *gin.Context) {
	h.findOne(ctx, entity.KindRegistration)
}

func (h *ModerationController) Volunteer(ctx *gin.Context) {
	h.findOne(ctx, entity.KindVolunteer)
}

func (h *ModerationController) findOne(ctx *gin.Context, kind entity.Kind) {
	ID, ok := paramID(ctx)
	if !ok {
		return
	}

	record, err := h.ModerationService.FindOneByID(ctx.Request.Context(), kind, ID)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"item": record})
}

// SetApproval expects {"approved": true|false|null}. The key has to be present,
// null moves the registration back to pending.
func (h *ModerationController) SetApproval(ctx *gin.Context) {
	ID, ok := paramID(ctx)
	if !ok {
		return
	}

	var body map[string]*bool
	err := ctx.ShouldBindJSON(&body)
	if err != nil {
		badRequest(ctx, err)
		return
	}
	approved, ok := body["approved"]
	if !ok {
		badRequest(ctx, errors.New("approved is required"))
		return
	}

	res, err := h.ModerationService.SetApproval(ctx.Request.Context(), ID, approved)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

type statusBody struct {
	Status entity.Bucket `json:"status" binding:"required,oneof=pending approved rejected"`
}

func (h *ModerationController) SetStatus(ctx *gin.Context) {
	ID, ok := paramID(ctx)
	if !ok {
		return
	}

	var body statusBody
	err := ctx.ShouldBindJSON(&body)
	if err != nil {
		badRequest(ctx, err)
		return
	}

	res, err := h.ModerationService.SetStatus(ctx.Request.Context(), ID, body.Status)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *ModerationController) CheckIn(ctx *gin.Context) {
	ID, ok := paramID(ctx)
	if !ok {
		return
	}

	res, err := h.ModerationService.CheckIn(ctx.Request.Context(), ID)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

func (h *ModerationController) UndoCheckIn(ctx *gin.Context) {
	ID, ok := paramID(ctx)
	if !ok {
		return
	}

	res, err := h.ModerationService.UndoCheckIn(ctx.Request.Context(), ID)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}
