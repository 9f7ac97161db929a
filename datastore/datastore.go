// Package datastore is a small JSON file-backed key/value store. Values are
// kept as encoded JSON in memory, saved periodically with an atomic rename and
// rotated into timestamped backups.
package datastore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

var (
	ErrClosed      = errors.New("datastore is closed")
	ErrMemoryLimit = errors.New("datastore memory limit exceeded")
)

// Config holds the options of a DataStore.
type Config struct {
	FilePath string
	// AutoSaveInterval of 0 disables background saving.
	AutoSaveInterval time.Duration
	// MaxMemorySize caps the encoded size of all values; 0 means unlimited.
	MaxMemorySize int64
	BackupCount   int
	Logger        zerolog.Logger
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig(filePath string) Config {
	return Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		MaxMemorySize:    100 * 1024 * 1024,
		BackupCount:      3,
		Logger:           zerolog.Nop(),
	}
}

type DataStore struct {
	mu           sync.RWMutex
	data         map[string]json.RawMessage
	size         int64
	lastChecksum [sha256.Size]byte
	closed       bool

	saveMu sync.Mutex
	config Config
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New opens the store at filePath with DefaultConfig.
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig opens or creates the store file and starts auto-saving.
func NewWithConfig(config Config) (*DataStore, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("datastore: file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("datastore: create directory: %w", err)
	}

	ds := &DataStore{data: make(map[string]json.RawMessage), config: config}
	switch _, err := os.Stat(config.FilePath); {
	case errors.Is(err, os.ErrNotExist):
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("datastore: create file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("datastore: stat file: %w", err)
	default:
		if err := ds.load(); err != nil {
			return nil, fmt.Errorf("datastore: load: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds.cancel = cancel
	if config.AutoSaveInterval > 0 {
		ds.wg.Add(1)
		go ds.autoSave(ctx)
	}
	return ds, nil
}

// Put encodes value and stores it under key.
func (ds *DataStore) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("datastore: encode %q: %w", key, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if ds.closed {
		return ErrClosed
	}
	size := ds.size - int64(len(ds.data[key])) + int64(len(raw))
	if ds.config.MaxMemorySize > 0 && size > ds.config.MaxMemorySize {
		return ErrMemoryLimit
	}
	ds.data[key] = raw
	ds.size = size
	return nil
}

// Get decodes the value stored under key into out. ok is false when the key
// is absent.
func (ds *DataStore) Get(key string, out any) (bool, error) {
	ds.mu.RLock()
	raw, ok := ds.data[key]
	closed := ds.closed
	ds.mu.RUnlock()
	if closed {
		return false, ErrClosed
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("datastore: decode %q: %w", key, err)
	}
	return true, nil
}

// Delete removes key.
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if raw, ok := ds.data[key]; ok {
		ds.size -= int64(len(raw))
		delete(ds.data, key)
	}
}

// Keys returns the sorted keys starting with prefix.
func (ds *DataStore) Keys(prefix string) []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	var keys []string
	for k := range ds.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Save writes the store to disk now.
func (ds *DataStore) Save() error {
	ds.mu.RLock()
	closed := ds.closed
	ds.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return ds.save()
}

// Close stops auto-saving and writes the store one last time.
func (ds *DataStore) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	ds.cancel()
	ds.wg.Wait()
	return ds.save()
}

// Stats reports the number of keys and the encoded size.
func (ds *DataStore) Stats() (keys int, size int64) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.data), ds.size
}

func (ds *DataStore) save() error {
	ds.saveMu.Lock()
	defer ds.saveMu.Unlock()

	ds.mu.RLock()
	data, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("datastore: encode: %w", err)
	}

	sum := sha256.Sum256(data)
	if sum == ds.lastChecksum {
		return nil
	}
	if ds.config.BackupCount > 0 {
		if err := ds.backup(); err != nil {
			ds.config.Logger.Warn().Err(err).Msg("datastore backup failed")
		}
	}
	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}
	written, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return fmt.Errorf("datastore: verify: %w", err)
	}
	if !bytes.Equal(written, data) {
		return fmt.Errorf("datastore: verify: checksum mismatch")
	}
	ds.lastChecksum = sum
	return nil
}

func (ds *DataStore) load() error {
	data, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return err
	}
	m := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	var size int64
	for _, raw := range m {
		size += int64(len(raw))
	}
	ds.data, ds.size = m, size
	ds.lastChecksum = sha256.Sum256(data)
	return nil
}

func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmp := ds.config.FilePath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("datastore: open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("datastore: write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("datastore: sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("datastore: close temp file: %w", err)
	}
	if err := os.Rename(tmp, ds.config.FilePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("datastore: rename temp file: %w", err)
	}
	return nil
}

func (ds *DataStore) backup() error {
	src, err := os.Open(ds.config.FilePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	name := fmt.Sprintf("%s.backup.%s", ds.config.FilePath, time.Now().Format("20060102_150405.000000000"))
	dst, err := os.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	ds.pruneBackups()
	return nil
}

// pruneBackups keeps the newest BackupCount backups. Backup names sort by
// creation time.
func (ds *DataStore) pruneBackups() {
	matches, err := filepath.Glob(ds.config.FilePath + ".backup.*")
	if err != nil || len(matches) <= ds.config.BackupCount {
		return
	}
	slices.Sort(matches)
	for _, old := range matches[:len(matches)-ds.config.BackupCount] {
		if err := os.Remove(old); err != nil {
			ds.config.Logger.Warn().Err(err).Str("file", old).Msg("remove old backup")
		}
	}
}

func (ds *DataStore) autoSave(ctx context.Context) {
	defer ds.wg.Done()
	ticker := time.NewTicker(ds.config.AutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ds.save(); err != nil {
				ds.config.Logger.Error().Err(err).Msg("datastore auto-save failed")
			}
		}
	}
}
