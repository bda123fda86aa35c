// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage archives chat transcripts locally so past research
// survives the backend pruning its own sessions.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/scholar-tui/internal/model"
	"github.com/jeranaias/scholar-tui/internal/util"
)

// =============================================================================
// ARCHIVED SESSION TYPE
// =============================================================================

// ArchivedSession is one transcript on disk, one JSON file per session.
type ArchivedSession struct {
	// LocalID names the file; it is independent of the backend session id
	// so a transcript archived before the first reply still has a home.
	LocalID string `json:"local_id"`

	// SessionID is the backend id, empty if never adopted.
	SessionID string `json:"session_id,omitempty"`

	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []model.Message `json:"messages"`
}

// SourceCount returns the total number of citations across all messages.
func (a *ArchivedSession) SourceCount() int {
	n := 0
	for i := range a.Messages {
		n += len(a.Messages[i].Sources)
	}
	return n
}

// SessionMeta is the listing view of an archived session.
type SessionMeta struct {
	LocalID      string    `json:"local_id"`
	SessionID    string    `json:"session_id,omitempty"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Preview      string    `json:"preview"`
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore persists transcripts under a directory, one JSON file each.
type HistoryStore struct {
	// BaseDir is the archive directory (default: ~/.scholar/history)
	BaseDir string

	// MaxSessions bounds the archive; oldest are evicted (0 = unlimited)
	MaxSessions int
}

// NewHistoryStore creates a store at the default location.
func NewHistoryStore() (*HistoryStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewHistoryStoreWithDir(filepath.Join(homeDir, ".scholar", "history"))
}

// NewHistoryStoreWithDir creates a store with a custom directory.
func NewHistoryStoreWithDir(baseDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &HistoryStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a conversation snapshot and returns its local ID. An empty
// conversation is not worth a file and returns ErrEmptySession.
func (s *HistoryStore) Save(conv model.Conversation) (string, error) {
	if len(conv.Messages) == 0 {
		return "", ErrEmptySession
	}

	arch := &ArchivedSession{
		LocalID:   s.localIDFor(conv.ID),
		SessionID: conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: time.Now(),
		Messages:  conv.Messages,
	}
	if arch.Title == "" {
		arch.Title = "Untitled research"
	}
	if arch.CreatedAt.IsZero() {
		arch.CreatedAt = arch.UpdatedAt
	}

	data, err := json.MarshalIndent(arch, "", "  ")
	if err != nil {
		return "", err
	}

	if err := util.AtomicWriteFile(s.filePath(arch.LocalID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}
	return arch.LocalID, nil
}

// localIDFor derives a stable file name: the backend session id when one
// exists (re-saving the same session overwrites its file), otherwise a
// random local id.
func (s *HistoryStore) localIDFor(sessionID string) string {
	if sessionID != "" {
		return "sess_" + sessionID
	}
	b := make([]byte, 8)
	rand.Read(b)
	return "local_" + hex.EncodeToString(b)
}

// enforceLimit evicts the oldest sessions beyond MaxSessions.
func (s *HistoryStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxSessions {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxSessions
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].LocalID)
	}
}

// =============================================================================
// LOAD AND LIST OPERATIONS
// =============================================================================

// Load retrieves an archived session by local ID.
func (s *HistoryStore) Load(localID string) (*ArchivedSession, error) {
	data, err := os.ReadFile(s.filePath(localID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var arch ArchivedSession
	if err := json.Unmarshal(data, &arch); err != nil {
		return nil, err
	}
	return &arch, nil
}

// List returns all archived sessions, most recently updated first.
// Corrupted files are skipped.
func (s *HistoryStore) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMeta{}, nil
		}
		return nil, err
	}

	var metas []SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		arch, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		preview := ""
		for i := range arch.Messages {
			if arch.Messages[i].Role == model.RoleUser {
				preview = util.TruncateRunes(arch.Messages[i].Content, 80)
				break
			}
		}

		metas = append(metas, SessionMeta{
			LocalID:      arch.LocalID,
			SessionID:    arch.SessionID,
			Title:        arch.Title,
			CreatedAt:    arch.CreatedAt,
			UpdatedAt:    arch.UpdatedAt,
			MessageCount: len(arch.Messages),
			Preview:      preview,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search finds sessions whose title, preview, or any message content
// contains the query (case-insensitive).
func (s *HistoryStore) Search(query string) ([]SessionMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	query = strings.ToLower(query)
	var results []SessionMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
			continue
		}

		arch, err := s.Load(meta.LocalID)
		if err != nil {
			continue
		}
		for i := range arch.Messages {
			if strings.Contains(strings.ToLower(arch.Messages[i].Content), query) {
				results = append(results, meta)
				break
			}
		}
	}
	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes an archived session by local ID.
func (s *HistoryStore) Delete(localID string) error {
	if err := os.Remove(s.filePath(localID)); err != nil {
		if os.IsNotExist(err) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Clear removes every archived session.
func (s *HistoryStore) Clear() error {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}
	return nil
}

// =============================================================================
// HELPERS AND ERRORS
// =============================================================================

func (s *HistoryStore) filePath(localID string) string {
	return filepath.Join(s.BaseDir, localID+".json")
}

// StoreError represents a history-store error. It supports errors.Is.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

var (
	// ErrSessionNotFound is returned when no archive exists for an ID.
	ErrSessionNotFound = &StoreError{Message: "session not found"}

	// ErrEmptySession is returned when saving a conversation with no messages.
	ErrEmptySession = &StoreError{Message: "session has no messages"}
)
