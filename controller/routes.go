package controller

import "github.com/gin-gonic/gin"

type Controllers struct {
	Report     *ReportController
	Moderation *ModerationController
	Intake     *IntakeController
	Health     *HealthController
}

func Register(router gin.IRouter, c Controllers) {
	router.GET("/healthz", c.Health.Health)

	api := router.Group("/api")
	{
		api.POST("/registrations", c.Intake.CreateRegistration)
		api.POST("/volunteers", c.Intake.CreateVolunteer)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/registrations", c.Report.Registrations)
		admin.GET("/registrations/:id", c.Moderation.Registration)
		admin.PATCH("/registrations/:id/approval", c.Moderation.SetApproval)
		admin.POST("/registrations/:id/check-in", c.Moderation.CheckIn)
		admin.DELETE("/registrations/:id/check-in", c.Moderation.UndoCheckIn)

		admin.GET("/volunteers", c.Report.Volunteers)
		admin.GET("/volunteers/:id", c.Moderation.Volunteer)
		admin.PATCH("/volunteers/:id/status", c.Moderation.SetStatus)
	}
}
