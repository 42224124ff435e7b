package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/thoughtpipe/thought-pipeline/internal/draft"
)

func (s *Server) handleDrafts(c echo.Context) error {
	drafts, err := s.drafts.List()
	if err != nil {
		return s.fail(c, err)
	}
	if drafts == nil {
		drafts = []draft.Draft{}
	}
	return c.JSON(http.StatusOK, drafts)
}

type editDraftRequest struct {
	Draft string `json:"draft"`
}

// handleEditDraft replaces the draft text, snapshotting the prior text into
// the version history first.
func (s *Server) handleEditDraft(c echo.Context) error {
	var req editDraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	id := c.Param("id")
	current, err := s.drafts.Get(id)
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.versions.Append(id, current.Draft); err != nil {
		return s.fail(c, err)
	}

	updated, err := s.drafts.UpdateText(id, req.Draft)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// handleDeleteDraft removes a draft along with its version history and any
// pending schedule; the topic's recorded status is cleared by the store.
func (s *Server) handleDeleteDraft(c echo.Context) error {
	id := c.Param("id")
	if err := s.drafts.Delete(id); err != nil {
		return s.fail(c, err)
	}
	if err := s.versions.Drop(id); err != nil {
		return s.fail(c, err)
	}
	if err := s.scheduler.Unschedule(id); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVersions(c echo.Context) error {
	versions, err := s.versions.List(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if versions == nil {
		versions = []draft.Version{}
	}
	return c.JSON(http.StatusOK, versions)
}

type scheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (s *Server) handleSchedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	entry, err := s.scheduler.Schedule(c.Param("id"), req.Date, req.Time)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) handleUnschedule(c echo.Context) error {
	if err := s.scheduler.Unschedule(c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(c echo.Context) error {
	drafts, err := s.drafts.List()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, draft.Analyze(drafts, time.Now()))
}
