package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

// MemoryStore keeps history for the lifetime of the process. It backs
// --history=none and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	history []models.HistoryEntry
	nextID  int64
}

func New() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
	}
}

func NewHistoryService() storage.HistoryService {
	return New()
}

func (ms *MemoryStore) Add(entry models.HistoryEntry) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if entry.ViewTime.IsZero() {
		entry.ViewTime = time.Now()
	}
	entry.ID = ms.nextID
	ms.nextID++
	ms.history = append(ms.history, entry)
	return entry.ID, nil
}

func (ms *MemoryStore) List(options storage.HistoryListOptions) ([]models.HistoryEntry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entries := make([]models.HistoryEntry, len(ms.history))
	copy(entries, ms.history)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID > entries[j].ID
	})
	if options.Limit > 0 && len(entries) > options.Limit {
		entries = entries[:options.Limit]
	}
	return entries, nil
}

func (ms *MemoryStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.history = nil
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
