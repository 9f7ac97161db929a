// Package storage keeps per-guild bot state in the datastore: the hashes of
// registered slash commands and a short command history.
package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/keshon/cmdargs/datastore"
)

const commandHistoryLimit = 20

type Storage struct {
	ds *datastore.DataStore
	// mu serialises read-modify-write of guild records.
	mu sync.Mutex
}

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Source    string    `json:"source"`
	Command   string    `json:"command"`
	Line      string    `json:"line,omitempty"`
	Error     string    `json:"error,omitempty"`
	Datetime  time.Time `json:"datetime"`
}

type Record struct {
	CommandHashes  map[string]string      `json:"command_hashes"`
	CommandHistory []CommandHistoryRecord `json:"cmd_history"`
}

// New opens the store file at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func guildKey(guildID string) string { return "guild:" + guildID }

func (s *Storage) record(guildID string) (*Record, error) {
	var r Record
	if _, err := s.ds.Get(guildKey(guildID), &r); err != nil {
		return nil, fmt.Errorf("guild %s: %w", guildID, err)
	}
	if r.CommandHashes == nil {
		r.CommandHashes = map[string]string{}
	}
	return &r, nil
}

func (s *Storage) update(guildID string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.record(guildID)
	if err != nil {
		return err
	}
	fn(r)
	return s.ds.Put(guildKey(guildID), r)
}

// CommandHashes returns the slash command hashes last registered in guildID,
// keyed by command name.
func (s *Storage) CommandHashes(guildID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.record(guildID)
	if err != nil {
		return nil, err
	}
	return r.CommandHashes, nil
}

// SetCommandHashes replaces the registered hashes of guildID.
func (s *Storage) SetCommandHashes(guildID string, hashes map[string]string) error {
	return s.update(guildID, func(r *Record) {
		r.CommandHashes = hashes
	})
}

// AppendCommandToHistory records an invocation, keeping the newest entries.
func (s *Storage) AppendCommandToHistory(guildID string, rec CommandHistoryRecord) error {
	return s.update(guildID, func(r *Record) {
		r.CommandHistory = append(r.CommandHistory, rec)
		if n := len(r.CommandHistory); n > commandHistoryLimit {
			r.CommandHistory = r.CommandHistory[n-commandHistoryLimit:]
		}
	})
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.record(guildID)
	if err != nil {
		return nil, err
	}
	return r.CommandHistory, nil
}
