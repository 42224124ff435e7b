package storage

// Store persists named JSON documents. Each document kind (preferences,
// drafts, batch sessions, ...) is loaded and saved as a whole; callers own
// the read-modify-write cycle.
type Store interface {
	// Load unmarshals the document for kind into v. Returns false if no
	// document of that kind has been saved yet.
	Load(kind string, v any) (bool, error)

	// Save marshals v and stores it under kind, replacing any prior document.
	Save(kind string, v any) error
}

// Document kinds used by the pipeline. Topic and draft ids are the join keys
// across kinds; cleanup on delete is manual.
const (
	KindUserTopics      = "user-topics"
	KindPreferences     = "preferences"
	KindDrafts          = "drafts"
	KindDraftVersions   = "draft-versions"
	KindScheduledDrafts = "scheduled-drafts"
	KindBatchSessions   = "batch-sessions"
)
