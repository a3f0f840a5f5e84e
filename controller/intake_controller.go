package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type IntakeController struct {
	IntakeService *service.IntakeService
}

type registrationBody struct {
	UserID  string `json:"userId" binding:"required,mongodb"`
	EventID string `json:"eventId" binding:"required,mongodb"`
}

func (h *IntakeController) CreateRegistration(ctx *gin.Context) {
	var body registrationBody
	err := ctx.ShouldBindJSON(&body)
	if err != nil {
		badRequest(ctx, err)
		return
	}

	userID, _ := bson.ObjectIDFromHex(body.UserID)
	eventID, _ := bson.ObjectIDFromHex(body.EventID)

	record, err := h.IntakeService.Register(ctx.Request.Context(), userID, eventID)
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"item": record})
}

type volunteerBody struct {
	UserID         string   `json:"userId" binding:"required,mongodb"`
	Availability   []string `json:"availability" binding:"max=20,dive,max=100"`
	Interests      []string `json:"interests" binding:"max=20,dive,max=100"`
	Skills         []string `json:"skills" binding:"max=20,dive,max=100"`
	Languages      []string `json:"languages" binding:"max=20,dive,max=100"`
	Experience     string   `json:"experience" binding:"max=2000"`
	Motivation     string   `json:"motivation" binding:"max=2000"`
	AdditionalInfo string   `json:"additionalInfo" binding:"max=2000"`
}

func (h *IntakeController) CreateVolunteer(ctx *gin.Context) {
	var body volunteerBody
	err := ctx.ShouldBindJSON(&body)
	if err != nil {
		badRequest(ctx, err)
		return
	}

	userID, _ := bson.ObjectIDFromHex(body.UserID)

	record, err := h.IntakeService.Apply(ctx.Request.Context(), entity.Participation{
		UserID:         userID,
		Availability:   body.Availability,
		Interests:      body.Interests,
		Skills:         body.Skills,
		Languages:      body.Languages,
		Experience:     body.Experience,
		Motivation:     body.Motivation,
		AdditionalInfo: body.AdditionalInfo,
	})
	if err != nil {
		abort(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"item": record})
}
