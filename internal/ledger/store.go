package ledger

import (
	"context"
	"sync"
	"time"
)

// Record is the persistable state of one account.
type Record struct {
	Owner              string
	Address            string
	Password           string
	Balance            int64
	UnseenDeposit      int64
	UnseenTransfer     int64
	WelfareCounter     int64
	WelfareLastPayment time.Time
	WelfareAmount      int64
}

// Store persists the full account set. The on-disk representation is the
// store's concern; the ledger only hands over records.
type Store interface {
	SaveAll(ctx context.Context, records []Record) error
	LoadAll(ctx context.Context) ([]Record, error)
}

// MemoryStore keeps records in memory. Used by tests and dev mode.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	saves   int
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// SaveAll replaces the stored record set.
func (s *MemoryStore) SaveAll(_ context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]Record, len(records))
	for _, rec := range records {
		s.records[rec.Owner] = rec
	}
	s.saves++
	return nil
}

// LoadAll returns the stored records.
func (s *MemoryStore) LoadAll(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

// Saves reports how many times SaveAll ran. Test hook.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
