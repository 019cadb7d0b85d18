package service

import (
	"github.com/firmdata/dataroom/internal/lib/job"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
)

// Services is a container that groups all business services so wiring
// passes one object around instead of many.
type Services struct {
	Identity *IdentityService
	Clients  *ClientService
	Datasets *DatasetService
	Storage  *StorageService
	Reports  *ReportService
	Job      *job.JobService
}

// NewService constructs the service container.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	datasets := NewDatasetService(s.Logger, repos.Datasets, repos.Files, repos.Access, s.Job)

	return &Services{
		Identity: NewIdentityService(repos.Users),
		Clients:  NewClientService(repos.Clients, repos.Access),
		Datasets: datasets,
		Storage:  NewStorageService(s.Config),
		Reports:  NewReportService(repos.Datasets, repos.Files, repos.Access),
		Job:      s.Job,
	}, nil
}
