package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"bettertogether/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrContentRequired indicates a journal entry with no text.
var ErrContentRequired = errors.New("content is required")

// JournalInput is the data needed to write a journal entry.
type JournalInput struct {
	Content  string
	Mood     string
	Tags     []string
	Location string
}

// JournalService writes and reads the shared journal.
type JournalService struct {
	repo domain.JournalRepository
	now  func() time.Time
	log  *zap.Logger
}

// NewJournalService creates a JournalService backed by repo.
func NewJournalService(repo domain.JournalRepository, log *zap.Logger) *JournalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &JournalService{repo: repo, now: time.Now, log: log}
}

// WithClock replaces the time source.
func (s *JournalService) WithClock(now func() time.Time) *JournalService {
	s.now = now
	return s
}

// Add stamps and stores a new entry at the top of the journal.
func (s *JournalService) Add(ctx context.Context, in JournalInput) (domain.JournalEntry, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return domain.JournalEntry{}, ErrContentRequired
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
	}
	e := domain.JournalEntry{
		ID:        uuid.NewString(),
		Content:   content,
		Timestamp: s.now(),
		Location:  strings.TrimSpace(in.Location),
		Mood:      strings.TrimSpace(in.Mood),
		Tags:      uniqueTags(tags),
	}
	if len(e.Tags) == 0 {
		e.Tags = nil
	}
	if err := s.repo.AddJournalEntry(ctx, e); err != nil {
		s.log.Error("add journal entry", zap.Error(err))
		return domain.JournalEntry{}, err
	}
	s.log.Debug("journal entry added", zap.String("id", e.ID))
	return e, nil
}

// List returns entries newest first, optionally only those carrying tag, up
// to limit (0 means all).
func (s *JournalService) List(ctx context.Context, limit int, tag string) ([]domain.JournalEntry, error) {
	entries, err := s.repo.ListJournalEntries(ctx)
	if err != nil {
		return nil, err
	}
	if tag != "" {
		tag = strings.ToLower(tag)
		filtered := make([]domain.JournalEntry, 0, len(entries))
		for _, e := range entries {
			if e.HasTag(tag) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
