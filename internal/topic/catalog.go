package topic

import (
	"errors"
	"fmt"

	"github.com/thoughtpipe/thought-pipeline/internal/storage"
)

// ErrNotFound is returned when a topic id resolves to nothing.
var ErrNotFound = errors.New("topic not found")

// Catalog is the merged view of scout-ingested and user-submitted topics.
// User topics come first, then scout topics newest document first; ids are
// unique across the merged list.
type Catalog struct {
	scoutDir string
	docs     storage.Store
}

// NewCatalog creates a catalog reading scout documents from scoutDir and
// user topics from docs.
func NewCatalog(scoutDir string, docs storage.Store) *Catalog {
	return &Catalog{scoutDir: scoutDir, docs: docs}
}

// UserTopics returns user-submitted topics, newest first. Absent or corrupt
// persisted state yields an empty list.
func (c *Catalog) UserTopics() []Topic {
	var topics []Topic
	if _, err := c.docs.Load(storage.KindUserTopics, &topics); err != nil {
		return nil
	}
	return topics
}

// AddUserTopic prepends a user-submitted topic to the persisted list.
func (c *Catalog) AddUserTopic(t Topic) error {
	topics := c.UserTopics()
	topics = append([]Topic{t}, topics...)
	if err := c.docs.Save(storage.KindUserTopics, topics); err != nil {
		return fmt.Errorf("save user topics: %w", err)
	}
	return nil
}

// ScoutTopics parses and deduplicates the scout directory.
func (c *Catalog) ScoutTopics() ([]Topic, error) {
	return LoadScoutDir(c.scoutDir)
}

// All returns the merged topic list: user topics first, then scout topics,
// deduplicated by id with the earliest occurrence winning.
func (c *Catalog) All() ([]Topic, error) {
	scout, err := c.ScoutTopics()
	if err != nil {
		return nil, err
	}
	return Dedupe(append(c.UserTopics(), scout...)), nil
}

// Find resolves a topic id against the merged list.
func (c *Catalog) Find(id string) (Topic, error) {
	topics, err := c.All()
	if err != nil {
		return Topic{}, err
	}
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return Topic{}, ErrNotFound
}
