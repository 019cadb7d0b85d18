package handler

import (
	"net/http"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/labstack/echo/v4"
)

// MeHandler returns the authenticated user's own profile.
type MeHandler struct {
	Handler
}

func NewMeHandler(s *server.Server) *MeHandler {
	return &MeHandler{
		Handler: NewHandler(s),
	}
}

// Routes registers the handler's endpoints on the given group.
func (h *MeHandler) Routes(g *echo.Group) {
	g.GET("/me", Handle(h.Handler, h.getMe, http.StatusOK))
}

func (h *MeHandler) getMe(c echo.Context, _ *EmptyRequest) (*repository.AppUser, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return user, nil
}
