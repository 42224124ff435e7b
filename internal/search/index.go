// Package search maintains a Bleve keyword index over the merged topic
// list, used for free-text topic lookup.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/thoughtpipe/thought-pipeline/internal/topic"
)

// Index wraps a Bleve search index over topics.
type Index struct {
	index bleve.Index
}

// indexedTopic is the shape stored in the index.
type indexedTopic struct {
	ID         string
	Title      string
	Summary    string
	Details    string
	PostWorthy string
	Source     string
}

// Hit is one search result.
type Hit struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Open opens or creates a Bleve index at path.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenMemOnly creates a throwaway in-memory index. Test hook.
func OpenMemOnly() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping creates the index mapping; titles get the English
// analyzer for stemming.
func buildIndexMapping() mapping.IndexMapping {
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Summary", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Details", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("PostWorthy", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Source", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexTopics upserts the given topics in one batch.
func (i *Index) IndexTopics(topics []topic.Topic) error {
	batch := i.index.NewBatch()
	for _, t := range topics {
		doc := &indexedTopic{
			ID:         t.ID,
			Title:      t.Title,
			Summary:    t.Summary,
			Details:    t.Details,
			PostWorthy: t.PostWorthy,
			Source:     t.Source,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("batch index %s: %w", t.ID, err)
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Search runs a query-string search (supports quotes, boolean operators,
// fuzzy ~) and returns up to limit hits with highlighted fragments.
func (i *Index) Search(queryStr string, limit int) ([]*Hit, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Title"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var hits []*Hit
	for _, h := range results.Hits {
		hit := &Hit{
			ID:        h.ID,
			Score:     h.Score,
			Fragments: h.Fragments,
		}
		if title, ok := h.Fields["Title"].(string); ok {
			hit.Title = title
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Count returns the number of topics in the index.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
