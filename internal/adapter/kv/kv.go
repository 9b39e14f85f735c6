// Package kv stores the app's JSON documents under fixed keys on top of any
// byte-oriented key-value backend.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bettertogether/internal/domain"
)

// ErrNotFound is returned by a Backend when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Storage keys.
const (
	KeyAppSettings    = "app_settings"
	KeyCycleSettings  = "cycle_settings"
	KeyCycleData      = "cycle_data"
	KeyCalendarEvents = "calendar_events"
	KeyJournalEntries = "journal_entries"
)

// Backend is the minimal persistence contract. Put replaces the whole value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store implements the domain repositories as JSON documents in a Backend.
type Store struct {
	backend Backend

	// serializes read-modify-write on the list documents
	mu sync.Mutex
}

// New creates a Store over b.
func New(b Backend) *Store {
	return &Store{backend: b}
}

var _ domain.AppSettingsRepository = (*Store)(nil)
var _ domain.CycleRepository = (*Store)(nil)
var _ domain.CalendarEventRepository = (*Store)(nil)
var _ domain.JournalRepository = (*Store)(nil)

type cycleData struct {
	Entries []domain.CycleEntry `json:"entries"`
}

// GetAppSettings returns the stored app settings, or defaults.
func (s *Store) GetAppSettings(ctx context.Context) (domain.AppSettings, error) {
	out := domain.DefaultAppSettings()
	if err := s.load(ctx, KeyAppSettings, &out); err != nil {
		return domain.AppSettings{}, err
	}
	return out, nil
}

// SaveAppSettings replaces the stored app settings.
func (s *Store) SaveAppSettings(ctx context.Context, v domain.AppSettings) error {
	return s.save(ctx, KeyAppSettings, v)
}

// GetCycleSettings returns the stored cycle settings, or defaults.
func (s *Store) GetCycleSettings(ctx context.Context) (domain.CycleSettings, error) {
	out := domain.DefaultCycleSettings()
	if err := s.load(ctx, KeyCycleSettings, &out); err != nil {
		return domain.CycleSettings{}, err
	}
	return out, nil
}

// SaveCycleSettings replaces the stored cycle settings.
func (s *Store) SaveCycleSettings(ctx context.Context, v domain.CycleSettings) error {
	return s.save(ctx, KeyCycleSettings, v)
}

// ListCycleEntries returns logged periods, newest first.
func (s *Store) ListCycleEntries(ctx context.Context) ([]domain.CycleEntry, error) {
	var data cycleData
	if err := s.load(ctx, KeyCycleData, &data); err != nil {
		return nil, err
	}
	if data.Entries == nil {
		return []domain.CycleEntry{}, nil
	}
	return data.Entries, nil
}

// AddCycleEntry puts e at the front of the entry list.
func (s *Store) AddCycleEntry(ctx context.Context, e domain.CycleEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data cycleData
	if err := s.load(ctx, KeyCycleData, &data); err != nil {
		return err
	}
	data.Entries = append([]domain.CycleEntry{e}, data.Entries...)
	return s.save(ctx, KeyCycleData, data)
}

// ListCalendarEvents returns events in the order they were added.
func (s *Store) ListCalendarEvents(ctx context.Context) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	if err := s.load(ctx, KeyCalendarEvents, &events); err != nil {
		return nil, err
	}
	if events == nil {
		return []domain.CalendarEvent{}, nil
	}
	return events, nil
}

// AddCalendarEvent appends e to the event list.
func (s *Store) AddCalendarEvent(ctx context.Context, e domain.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []domain.CalendarEvent
	if err := s.load(ctx, KeyCalendarEvents, &events); err != nil {
		return err
	}
	return s.save(ctx, KeyCalendarEvents, append(events, e))
}

// ListJournalEntries returns journal entries, newest first.
func (s *Store) ListJournalEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	if err := s.load(ctx, KeyJournalEntries, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return []domain.JournalEntry{}, nil
	}
	return entries, nil
}

// AddJournalEntry puts e at the front of the journal.
func (s *Store) AddJournalEntry(ctx context.Context, e domain.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.JournalEntry
	if err := s.load(ctx, KeyJournalEntries, &entries); err != nil {
		return err
	}
	return s.save(ctx, KeyJournalEntries, append([]domain.JournalEntry{e}, entries...))
}

// load decodes the value at key over dst. A missing key leaves dst untouched.
func (s *Store) load(ctx context.Context, key string, dst any) error {
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("kv decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}
