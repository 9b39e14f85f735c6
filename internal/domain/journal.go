package domain

import (
	"context"
	"slices"
	"time"
)

// JournalEntry is a written reflection.
type JournalEntry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Location  string    `json:"location,omitempty"`
	Mood      string    `json:"mood,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
}

// HasTag reports whether the entry carries tag.
func (e JournalEntry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// JournalRepository is the port for journal persistence. Entries are listed
// newest first.
type JournalRepository interface {
	ListJournalEntries(ctx context.Context) ([]JournalEntry, error)
	AddJournalEntry(ctx context.Context, e JournalEntry) error
}
