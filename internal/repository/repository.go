// Package repository handles all interactions with the database.
//
// It contains the SQL queries and row types for firms' users, clients,
// access grants, datasets (upload batches), and uploaded files,
// abstracting SQL away from the service layer.
package repository

import (
	"github.com/firmdata/dataroom/internal/server"
)

// Repositories is a container for all repository instances, initialized
// once from the application container and injected into services.
type Repositories struct {
	Users    *UsersRepository
	Clients  *ClientsRepository
	Access   *AccessRepository
	Datasets *DatasetsRepository
	Files    *FilesRepository
}

// NewRepositories constructs the repository container from the shared
// database pool.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Users:    NewUsersRepository(pool),
		Clients:  NewClientsRepository(pool),
		Access:   NewAccessRepository(pool),
		Datasets: NewDatasetsRepository(pool),
		Files:    NewFilesRepository(pool),
	}
}
