package handler

import (
	"net/http"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/labstack/echo/v4"
)

// ReportHandler serves integrity reports over ready datasets.
type ReportHandler struct {
	Handler
	reports *service.ReportService
}

func NewReportHandler(s *server.Server, services *service.Services) *ReportHandler {
	return &ReportHandler{
		Handler: NewHandler(s),
		reports: services.Reports,
	}
}

// Routes registers the handler's endpoints on the given group.
func (h *ReportHandler) Routes(g *echo.Group) {
	g.GET("/reports", Handle(h.Handler, h.list, http.StatusOK))
}

func (h *ReportHandler) list(c echo.Context, _ *EmptyRequest) ([]service.DatasetReport, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return h.reports.List(c.Request().Context(), user)
}
