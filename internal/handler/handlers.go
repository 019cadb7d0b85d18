package handler

import (
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router setup
// passes one object around instead of many.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Me       *MeHandler
	Clients  *ClientHandler
	Datasets *DatasetHandler
	Reports  *ReportHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Me:       NewMeHandler(s),
		Clients:  NewClientHandler(s, services),
		Datasets: NewDatasetHandler(s, services),
		Reports:  NewReportHandler(s, services),
	}
}
