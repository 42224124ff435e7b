// Package web exposes the pipeline over HTTP. Handlers are glue: they parse
// requests, call into the core packages, and map domain errors to statuses.
package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/thoughtpipe/thought-pipeline/internal/ai"
	"github.com/thoughtpipe/thought-pipeline/internal/batch"
	"github.com/thoughtpipe/thought-pipeline/internal/draft"
	"github.com/thoughtpipe/thought-pipeline/internal/pipeline"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/search"
	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

// Server holds the handler dependencies.
type Server struct {
	catalog   *topic.Catalog
	prefs     *prefs.Store
	drafts    *draft.Store
	versions  *draft.VersionLog
	scheduler *draft.Scheduler
	batch     *batch.Manager
	pipe      *pipeline.Pipeline
	idx       *search.Index
	audioDir  string
	uploadDir string
	logger    *slog.Logger
}

// New creates a server.
func New(catalog *topic.Catalog, p *prefs.Store, drafts *draft.Store, versions *draft.VersionLog, scheduler *draft.Scheduler, batchMgr *batch.Manager, pipe *pipeline.Pipeline, idx *search.Index, audioDir, uploadDir string, logger *slog.Logger) *Server {
	return &Server{
		catalog:   catalog,
		prefs:     p,
		drafts:    drafts,
		versions:  versions,
		scheduler: scheduler,
		batch:     batchMgr,
		pipe:      pipe,
		idx:       idx,
		audioDir:  audioDir,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Handler builds the echo instance with all routes registered.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/health", s.handleHealth)
	e.Static("/audio", s.audioDir)

	api := e.Group("/api")

	api.GET("/topics", s.handleTopics)
	api.GET("/topics/all", s.handleTopicsAll)
	api.GET("/topics/user", s.handleUserTopics)
	api.GET("/topics/search", s.handleTopicSearch)
	api.POST("/topics/suggest", s.handleSuggest)
	api.POST("/topics/merge", s.handleMerge)
	api.POST("/topics/:id/status", s.handleSetStatus)
	api.DELETE("/topics/:id", s.handleDeleteTopic)
	api.GET("/topics/:id/similar", s.handleSimilar)

	api.POST("/tts/:id", s.handleTTS)
	api.POST("/record/:id", s.handleRecord)

	api.GET("/drafts", s.handleDrafts)
	api.PUT("/drafts/:id", s.handleEditDraft)
	api.DELETE("/drafts/:id", s.handleDeleteDraft)
	api.GET("/drafts/:id/versions", s.handleVersions)
	api.POST("/drafts/:id/schedule", s.handleSchedule)
	api.DELETE("/drafts/:id/schedule", s.handleUnschedule)
	api.GET("/stats", s.handleStats)

	api.POST("/batch", s.handleBatchStart)
	api.GET("/batch/:id", s.handleBatchGet)
	api.POST("/batch/:id/recordings", s.handleBatchAddRecording)
	api.POST("/batch/:id/process", s.handleBatchProcess)

	return e
}

func (s *Server) handleHealth(c echo.Context) error {
	topics, err := s.catalog.All()
	if err != nil {
		return s.fail(c, err)
	}
	drafts, err := s.drafts.List()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"topics": len(topics),
		"drafts": len(drafts),
	})
}

// fail maps domain errors to HTTP statuses and logs the rest.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, topic.ErrNotFound),
		errors.Is(err, draft.ErrNotFound),
		errors.Is(err, batch.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, pipeline.ErrMissingInput),
		errors.Is(err, pipeline.ErrInsufficientTopics),
		errors.Is(err, batch.ErrMissingAudio):
		status = http.StatusBadRequest
	case errors.Is(err, ai.ErrExternalService),
		errors.Is(err, ai.ErrMalformedResponse):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// saveUpload writes the "audio" form file to a temp file under the upload
// dir and returns its path. Returns "" when the request has no audio part.
func (s *Server) saveUpload(c echo.Context) (string, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := "wav"
	if fh.Header.Get("Content-Type") == "audio/webm" {
		ext = "webm"
	}
	path := filepath.Join(s.uploadDir, uuid.NewString()+"."+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

// discardUpload removes a temp upload, best effort.
func (s *Server) discardUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove upload", "path", path, "error", err)
	}
}
