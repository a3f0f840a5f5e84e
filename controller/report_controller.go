package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"github.com/joeyave/club-admin/service"
	"github.com/rs/zerolog"
)

type ReportController struct {
	ReportService *service.ReportService
}

func (h *ReportController) Registrations(ctx *gin.Context) {
	h.report(ctx, entity.KindRegistration)
}

func (h *ReportController) Volunteers(ctx *gin.Context) {
	h.report(ctx, entity.KindVolunteer)
}

func (h *ReportController) report(ctx *gin.Context, kind entity.Kind) {
	p, o := filter.Compile(kind, ctx.Request.URL.Query(), h.ReportService.Defaults(kind))

	zerolog.Ctx(ctx.Request.Context()).Debug().
		Str("kind", string(kind)).
		Str("mode", string(o.Mode)).
		Interface("filter", p).
		Msg("Report")

	switch o.Mode {
	case entity.ModeCounts:
		counts, err := h.ReportService.Counts(ctx.Request.Context(), p)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"counts": counts})

	case entity.ModeEmails:
		emails, err := h.ReportService.Emails(ctx.Request.Context(), p)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"emails": emails,
			"count":  len(emails),
		})

	case entity.ModeCSV:
		// Rows are built completely before the first byte goes out so a failed read
		// turns into an error response, not a truncated file.
		rows, err := h.ReportService.CSV(ctx.Request.Context(), p)
		if err != nil {
			abort(ctx, err)
			return
		}

		filename := fmt.Sprintf("%s-%s.csv", kind.Collection(), time.Now().UTC().Format("20060102-150405"))
		ctx.Header("Content-Type", "text/csv; charset=utf-8")
		ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		ctx.Status(http.StatusOK)

		err = service.WriteCSV(ctx.Writer, rows)
		if err != nil {
			_ = ctx.Error(err)
		}

	default:
		page, counts, err := h.ReportService.Page(ctx.Request.Context(), p, o)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"items": page.Items,
			"pagination": gin.H{
				"total":     page.Total,
				"page":      page.Page,
				"limit":     page.Limit,
				"pageCount": page.PageCount,
			},
			"stats":  counts,
			"filter": p,
		})
	}
}
