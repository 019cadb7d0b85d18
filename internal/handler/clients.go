package handler

import (
	"net/http"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/labstack/echo/v4"
)

// ClientHandler lists the clients the caller may act on.
type ClientHandler struct {
	Handler
	clients *service.ClientService
}

func NewClientHandler(s *server.Server, services *service.Services) *ClientHandler {
	return &ClientHandler{
		Handler: NewHandler(s),
		clients: services.Clients,
	}
}

// Routes registers the handler's endpoints on the given group.
func (h *ClientHandler) Routes(g *echo.Group) {
	g.GET("/clients", Handle(h.Handler, h.list, http.StatusOK))
}

func (h *ClientHandler) list(c echo.Context, _ *EmptyRequest) ([]repository.Client, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return h.clients.ListAccessible(c.Request().Context(), user)
}
