package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thoughtpipe/thought-pipeline/internal/batch"
)

func (s *Server) handleBatchStart(c echo.Context) error {
	session, err := s.batch.Start()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleBatchGet(c echo.Context) error {
	session, err := s.batch.Get(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleBatchAddRecording(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return s.fail(c, batch.ErrMissingAudio)
	}
	src, err := fh.Open()
	if err != nil {
		return s.fail(c, err)
	}
	defer src.Close()

	ext := "wav"
	if fh.Header.Get("Content-Type") == "audio/webm" {
		ext = "webm"
	}

	session, err := s.batch.AddRecording(
		c.Param("id"),
		c.FormValue("topicId"),
		c.FormValue("topicTitle"),
		src,
		ext,
	)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// handleBatchProcess runs the whole batch. It always answers 200 once the
// run completes; per-recording outcomes are in the results array.
func (s *Server) handleBatchProcess(c echo.Context) error {
	session, err := s.batch.Process(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"session": session,
		"results": session.Results,
	})
}
