package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/thoughtpipe/thought-pipeline/internal/feed"
	"github.com/thoughtpipe/thought-pipeline/internal/prefs"
	"github.com/thoughtpipe/thought-pipeline/internal/similar"
)

// handleTopics returns the ranked consumption feed.
func (s *Server) handleTopics(c echo.Context) error {
	topics, err := s.catalog.All()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, feed.Rank(topics, s.prefs.Read()))
}

// handleTopicsAll returns the browsing list: everything except deleted
// topics, in original order.
func (s *Server) handleTopicsAll(c echo.Context) error {
	topics, err := s.catalog.All()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, feed.Browse(topics, s.prefs.Read()))
}

func (s *Server) handleUserTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.UserTopics())
}

func (s *Server) handleTopicSearch(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing q parameter"})
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	hits, err := s.idx.Search(query, limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   query,
		"results": hits,
		"count":   len(hits),
	})
}

// handleSuggest researches a topic idea given as text or a voice note.
func (s *Server) handleSuggest(c echo.Context) error {
	audioPath, err := s.saveUpload(c)
	if err != nil {
		return s.fail(c, err)
	}
	defer s.discardUpload(audioPath)

	text := c.FormValue("text")
	if audioPath == "" && text == "" {
		// JSON body fallback for clients not using multipart.
		var body struct {
			Text string `json:"text"`
		}
		if err := c.Bind(&body); err == nil {
			text = body.Text
		}
	}

	t, err := s.pipe.Suggest(c.Request().Context(), text, audioPath)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSetStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	rec, err := s.prefs.SetStatus(c.Param("id"), prefs.Status(req.Status))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteTopic(c echo.Context) error {
	rec, err := s.prefs.Delete(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleSimilar(c echo.Context) error {
	topics, err := s.catalog.All()
	if err != nil {
		return s.fail(c, err)
	}

	matches, err := similar.FindSimilar(topics, c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, matches)
}

type mergeRequest struct {
	TopicIDs []string `json:"topicIds"`
	Title    string   `json:"title"`
}

func (s *Server) handleMerge(c echo.Context) error {
	var req mergeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	d, err := s.pipe.Merge(c.Request().Context(), req.TopicIDs, req.Title)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// handleTTS returns the audio URL for a topic, generating it on first
// request.
func (s *Server) handleTTS(c echo.Context) error {
	fileName, err := s.pipe.Speak(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": "/audio/" + fileName})
}

// handleRecord converts one uploaded voice note into a draft.
func (s *Server) handleRecord(c echo.Context) error {
	audioPath, err := s.saveUpload(c)
	if err != nil {
		return s.fail(c, err)
	}
	if audioPath == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no audio file"})
	}
	defer s.discardUpload(audioPath)

	d, err := s.pipe.Record(c.Request().Context(), c.Param("id"), audioPath)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
