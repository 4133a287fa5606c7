package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

type FileStore struct {
	filePath string
	mu       sync.RWMutex
	data     *FileData
}

type HistoryFileStore struct {
	*FileStore
}

type FileData struct {
	History []models.HistoryEntry `json:"history"`
	NextID  int64                 `json:"next_id"`
}

func New(filePath string) (*FileStore, error) {
	fs := &FileStore{
		filePath: filePath,
		data: &FileData{
			History: []models.HistoryEntry{},
			NextID:  1,
		},
	}

	// Try to load existing data
	if err := fs.load(); err != nil {
		// If file doesn't exist, that's ok, we'll create it on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load file: %w", err)
		}
	}

	return fs, nil
}

func NewHistoryService(filePath string) (storage.HistoryService, error) {
	fs, err := New(filePath)
	if err != nil {
		return nil, err
	}
	return &HistoryFileStore{FileStore: fs}, nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, fs.data)
}

func (fs *FileStore) save() error {
	data, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fs.filePath, data, 0644)
}

func (fs *FileStore) nextID() int64 {
	id := fs.data.NextID
	fs.data.NextID++
	return id
}

func (fs *FileStore) Close() error {
	return nil
}

func (hs *HistoryFileStore) Add(entry models.HistoryEntry) (int64, error) {
	fs := hs.FileStore
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if entry.ViewTime.IsZero() {
		entry.ViewTime = time.Now()
	}
	entry.ID = fs.nextID()
	fs.data.History = append(fs.data.History, entry)

	if err := fs.save(); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

func (hs *HistoryFileStore) List(options storage.HistoryListOptions) ([]models.HistoryEntry, error) {
	fs := hs.FileStore
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries := make([]models.HistoryEntry, len(fs.data.History))
	copy(entries, fs.data.History)
	sortNewestFirst(entries)

	if options.Limit > 0 && len(entries) > options.Limit {
		entries = entries[:options.Limit]
	}
	return entries, nil
}

func (hs *HistoryFileStore) Clear() error {
	fs := hs.FileStore
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.data.History = []models.HistoryEntry{}
	return fs.save()
}

func sortNewestFirst(entries []models.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ViewTime.Equal(entries[j].ViewTime) {
			return entries[i].ViewTime.After(entries[j].ViewTime)
		}
		return entries[i].ID > entries[j].ID
	})
}
