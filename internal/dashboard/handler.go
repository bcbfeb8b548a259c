package dashboard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/mirador-lab/project-mirador/internal/api/v1"
	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	httperr "github.com/mirador-lab/project-mirador/internal/core/errors"
	"github.com/mirador-lab/project-mirador/internal/core/filter"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
)

// defaultUploadProfile applies when an upload names no profile: CSV
// uploads are price histories in the reference flow.
const defaultUploadProfile = profile.NamePriceSeries

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgBodyTooLarge    = "Request body exceeds maximum allowed size"
	msgDatasetNotFound = "Dataset not found"
	msgLoadFailed      = "Failed to load dataset"
)

// apiError carries the structured HTTP error shape from a helper back to
// the orchestrating handler. Helpers return this instead of writing to
// gin.Context directly, keeping them decoupled from HTTP.
type apiError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *apiError) Error() string {
	return e.message
}

// RegisterRoutes registers the dashboard API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/datasets", s.UploadHandler)
	r.GET("/v1/datasets", s.ListHandler)
	r.GET("/v1/datasets/:id", s.MetaHandler)
	r.GET("/v1/datasets/:id/dashboard", s.DashboardHandler)
}

// UploadHandler handles POST /v1/datasets: a raw CSV body plus `name`
// and `profile` query parameters. Re-uploading identical bytes returns
// the existing dataset (memoized build), reported as 200 instead of 201.
func (s *Service) UploadHandler(c *gin.Context) {
	prof, err := s.profiles.Get(c.DefaultQuery("profile", defaultUploadProfile))
	if err != nil {
		writeError(c, &apiError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    err.Error(),
		})
		return
	}

	raw, apiErr := s.readBody(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	name := c.DefaultQuery("name", "uploaded.csv")
	ds, created, err := s.loadDataset(name, prof, raw)
	if err != nil {
		writeError(c, loadError(err))
		return
	}

	slog.Info("Dataset registered",
		"dataset_id", ds.ID,
		"name", ds.Name,
		"profile", ds.Profile.Name,
		"rows", ds.Report.Rows,
		"skipped_rows", ds.Report.Skipped,
		"memoized", !created)

	status := http.StatusOK // memoized hit, nothing new built
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, datasetMeta(ds))
}

// ListHandler handles GET /v1/datasets.
func (s *Service) ListHandler(c *gin.Context) {
	datasets := s.registry.List()
	metas := make([]v1.DatasetMeta, 0, len(datasets))
	for _, ds := range datasets {
		metas = append(metas, datasetMeta(ds))
	}
	c.JSON(http.StatusOK, gin.H{"datasets": metas})
}

// MetaHandler handles GET /v1/datasets/:id.
func (s *Service) MetaHandler(c *gin.Context) {
	ds, ok := s.registry.Get(c.Param("id"))
	if !ok {
		writeError(c, notFound())
		return
	}
	c.JSON(http.StatusOK, datasetMeta(ds))
}

// DashboardHandler handles GET /v1/datasets/:id/dashboard.
// Query parameters: start, end (YYYY-MM-DD, clamped to the dataset's
// bounds) and categories (comma-separated; absent means all).
func (s *Service) DashboardHandler(c *gin.Context) {
	ds, ok := s.registry.Get(c.Param("id"))
	if !ok {
		writeError(c, notFound())
		return
	}

	params, apiErr := parseFilterParams(c, ds)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	bundle := s.BuildBundle(ds, params)
	if bundle.Warning != "" {
		slog.Info("Empty filtered view", "dataset_id", ds.ID, "warning", bundle.Warning)
	}
	c.JSON(http.StatusOK, decorate(bundle))
}

// parseFilterParams binds the filter query parameters. Absent dates mean
// the dataset's full range; an absent categories parameter selects every
// category, while an explicitly empty one selects none.
func parseFilterParams(c *gin.Context, ds *Dataset) (filter.Params, *apiError) {
	var start, end time.Time
	var err error

	if raw := c.Query("start"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			return filter.Params{}, &apiError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidRequestError,
				message:    fmt.Sprintf("invalid start date %q (want YYYY-MM-DD)", raw),
			}
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			return filter.Params{}, &apiError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidRequestError,
				message:    fmt.Sprintf("invalid end date %q (want YYYY-MM-DD)", raw),
			}
		}
	}

	categories := ds.Store.Categories()
	if raw, present := c.GetQuery("categories"); present {
		categories = nil
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				categories = append(categories, cat)
			}
		}
	}

	return filter.NewParams(start, end, categories), nil
}

// readBody reads the raw upload with the body-size limit enforced.
func (s *Service) readBody(c *gin.Context) ([]byte, *apiError) {
	maxBytes := int64(s.maxBodyBytes)
	limited := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	raw, err := io.ReadAll(limited)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &apiError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}
	if int64(len(raw)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(raw), "max", maxBytes)
		return nil, &apiError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}
	return raw, nil
}

// loadDataset builds a store from raw bytes with the adapter boundary
// hardened: any panic during load or parse is converted to a single
// error instead of propagating to the caller.
func (s *Service) loadDataset(name string, p profile.Profile, raw []byte) (ds *Dataset, created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Dataset load panicked", "name", name, "panic", r)
			ds, created, err = nil, false, fmt.Errorf("load dataset %q: %v", name, r)
		}
	}()
	return s.registry.Register(name, p, raw)
}

// loadError maps a build failure onto the HTTP error shape. Schema
// errors keep their structured details; everything else is internal.
func loadError(err error) *apiError {
	var schemaErr *dataset.SchemaError
	if errors.As(err, &schemaErr) {
		return &apiError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpSchemaError,
			message:    schemaErr.Error(),
			details:    schemaErr.Details(),
		}
	}
	if errors.Is(err, dataset.ErrEmptyTable) || errors.Is(err, dataset.ErrMissingHeader) {
		return &apiError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpEmptyDatasetError,
			message:    err.Error(),
		}
	}
	return &apiError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgLoadFailed,
		details:    err.Error(),
	}
}

func notFound() *apiError {
	return &apiError{
		statusCode: http.StatusNotFound,
		errorType:  httperr.HttpDatasetNotFoundError,
		message:    msgDatasetNotFound,
	}
}

func datasetMeta(ds *Dataset) v1.DatasetMeta {
	return v1.DatasetMeta{
		ID:          ds.ID,
		Name:        ds.Name,
		Profile:     ds.Profile.Name,
		Rows:        ds.Store.Len(),
		SkippedRows: ds.Report.Skipped,
		MinDate:     isoDay(ds.Store.MinDate()),
		MaxDate:     isoDay(ds.Store.MaxDate()),
		Categories:  ds.Store.Categories(),
	}
}

// writeError serializes an apiError as the JSON HTTP response.
func writeError(c *gin.Context, err *apiError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
