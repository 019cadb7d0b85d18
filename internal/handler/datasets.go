package handler

import (
	"net/http"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/firmdata/dataroom/internal/repository"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/firmdata/dataroom/internal/service"
	"github.com/firmdata/dataroom/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate checks request payload tags. Shared across handlers; the
// validator is safe for concurrent use.
var validate = validator.New()

// CreateDatasetRequest is the payload for creating a dataset.
type CreateDatasetRequest struct {
	ClientID string  `json:"client_id" validate:"required,uuid"`
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateDatasetRequest) Validate() error {
	return validate.Struct(r)
}

// AddFileRequest registers metadata for a file already placed in
// object storage.
type AddFileRequest struct {
	Filename    string `json:"filename" validate:"required,min=1,max=255"`
	FileType    string `json:"file_type" validate:"required,min=1,max=100"`
	StoragePath string `json:"storage_path" validate:"required,min=1,max=1024"`
	SizeBytes   int64  `json:"size_bytes" validate:"gte=0"`
}

func (r *AddFileRequest) Validate() error {
	return validate.Struct(r)
}

// PresignUploadRequest asks for a signed PUT URL for a new file.
type PresignUploadRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
}

func (r *PresignUploadRequest) Validate() error {
	return validate.Struct(r)
}

// DatasetHandler serves dataset CRUD, file registration, presigned
// uploads, and processing.
type DatasetHandler struct {
	Handler
	datasets *service.DatasetService
	storage  *service.StorageService
}

func NewDatasetHandler(s *server.Server, services *service.Services) *DatasetHandler {
	return &DatasetHandler{
		Handler:  NewHandler(s),
		datasets: services.Datasets,
		storage:  services.Storage,
	}
}

// Routes registers the handler's endpoints on the given group.
func (h *DatasetHandler) Routes(g *echo.Group) {
	g.POST("/datasets", Handle(h.Handler, h.create, http.StatusCreated))
	g.GET("/datasets", Handle(h.Handler, h.list, http.StatusOK))
	g.GET("/datasets/:id", Handle(h.Handler, h.detail, http.StatusOK))
	g.POST("/datasets/:id/files", Handle(h.Handler, h.addFile, http.StatusCreated))
	g.POST("/datasets/:id/files/upload-url", Handle(h.Handler, h.presignUpload, http.StatusOK))
	g.POST("/datasets/:id/process", Handle(h.Handler, h.process, http.StatusOK))
}

// currentUserAndDatasetID pulls the authenticated user and the :id path
// parameter, rejecting non-UUID ids before any query runs.
func currentUserAndDatasetID(c echo.Context) (*repository.AppUser, string, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, "", errs.NewUnauthorizedError("Unauthorized", false)
	}

	datasetID := c.Param("id")
	if !validation.IsValidUUID(datasetID) {
		return nil, "", errs.NewBadRequestError("Invalid dataset id", false, nil, nil, nil)
	}

	return user, datasetID, nil
}

func (h *DatasetHandler) create(c echo.Context, req *CreateDatasetRequest) (*repository.Dataset, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return h.datasets.Create(c.Request().Context(), user, req.ClientID, req.Name, req.Notes)
}

func (h *DatasetHandler) list(c echo.Context, _ *EmptyRequest) ([]repository.Dataset, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	return h.datasets.List(c.Request().Context(), user)
}

func (h *DatasetHandler) detail(c echo.Context, _ *EmptyRequest) (*service.DatasetDetail, error) {
	user, datasetID, err := currentUserAndDatasetID(c)
	if err != nil {
		return nil, err
	}

	return h.datasets.Detail(c.Request().Context(), user, datasetID)
}

func (h *DatasetHandler) addFile(c echo.Context, req *AddFileRequest) (*repository.DatasetFile, error) {
	user, datasetID, err := currentUserAndDatasetID(c)
	if err != nil {
		return nil, err
	}

	return h.datasets.AddFile(c.Request().Context(), user, datasetID, service.FileInput{
		Filename:    req.Filename,
		FileType:    req.FileType,
		StoragePath: req.StoragePath,
		SizeBytes:   req.SizeBytes,
	})
}

// presignUpload authorizes against the dataset first so a caller
// without a grant cannot mint upload URLs into the firm's bucket.
func (h *DatasetHandler) presignUpload(c echo.Context, req *PresignUploadRequest) (*service.PresignedUpload, error) {
	user, datasetID, err := currentUserAndDatasetID(c)
	if err != nil {
		return nil, err
	}

	if _, err := h.datasets.Detail(c.Request().Context(), user, datasetID); err != nil {
		return nil, err
	}

	return h.storage.PresignUpload(c.Request().Context(), user.FirmID, datasetID, req.Filename)
}

func (h *DatasetHandler) process(c echo.Context, _ *EmptyRequest) (*service.ProcessResult, error) {
	user, datasetID, err := currentUserAndDatasetID(c)
	if err != nil {
		return nil, err
	}

	return h.datasets.Process(c.Request().Context(), user, datasetID)
}
