// Package store — рабочий набор записей библиотеки в памяти процесса.
// Порядок: новые записи первыми. Все методы потокобезопасны и отдают копии.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ImageLibrary/internal/cli/model"
)

// ErrNotFound is returned when a record id is not in the collection.
var ErrNotFound = errors.New("image not found")

// Wildcard matches any category or status in a Query.
const Wildcard = "all"

// Query describes a filtered view of the collection.
type Query struct {
	Text           string
	Category       string
	Status         string
	IncludeDeleted bool
}

// Edit carries the editable fields of a record.
type Edit struct {
	Description            string
	Category               string
	Tags                   []string
	AppMetadata            model.AppMetadata
	LinkedProductGlobalIDs []int64
}

// Patch is what the backend assigned to an uploaded record.
type Patch struct {
	NewID          int64
	BlobURL        string
	CloudTimestamp string
}

// Stats mirrors the summary cards: totals exclude deleted records.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Conflicts int `json:"conflicts"`
	Deleted   int `json:"deleted"`
}

// Store — коллекция записей. Нулевое значение готово к работе.
type Store struct {
	mu      sync.RWMutex
	records []model.ImageRecord
	lastID  int64
	now     func() time.Time
}

// New creates an empty store.
func New() *Store { return &Store{} }

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// Replace swaps the whole collection.
func (s *Store) Replace(records []model.ImageRecord) {
	cp := make([]model.ImageRecord, 0, len(records))
	for _, r := range records {
		cp = append(cp, r.Clone())
	}
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
}

// Prepend inserts records before the existing ones, keeping their order.
// An id that is already present rejects the whole batch.
func (s *Store) Prepend(records ...model.ImageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{}, len(s.records)+len(records))
	for _, r := range s.records {
		seen[r.GlobalID] = struct{}{}
	}
	for _, r := range records {
		if _, dup := seen[r.GlobalID]; dup {
			return fmt.Errorf("image id %d already exists", r.GlobalID)
		}
		seen[r.GlobalID] = struct{}{}
	}
	out := make([]model.ImageRecord, 0, len(s.records)+len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	s.records = append(out, s.records...)
	return nil
}

// Filter returns the records matching q, in collection order.
func (s *Store) Filter(q Query) []model.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ImageRecord, 0, len(s.records))
	for _, r := range s.records {
		if Matches(r, q) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Matches reports whether r is visible under q. Text matches case-insensitively
// as a substring of the name, the description or any tag.
func Matches(r model.ImageRecord, q Query) bool {
	if r.IsDeleted && !q.IncludeDeleted {
		return false
	}
	if c := strings.TrimSpace(q.Category); c != "" && c != Wildcard && r.Category != c {
		return false
	}
	if st := strings.TrimSpace(q.Status); st != "" && st != Wildcard && string(r.SyncStatus) != st {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), text) || strings.Contains(strings.ToLower(r.Description), text) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), text) {
			return true
		}
	}
	return false
}

// Get returns a copy of the record with id.
func (s *Store) Get(id int64) (model.ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return model.ImageRecord{}, false
}

// All returns a copy of the whole collection, deleted records included.
func (s *Store) All() []model.ImageRecord {
	return s.Filter(Query{IncludeDeleted: true})
}

// Len returns the number of records, deleted included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Stats counts the collection for the summary view.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st Stats
	for _, r := range s.records {
		if r.IsDeleted {
			st.Deleted++
			continue
		}
		st.Total++
		switch r.SyncStatus {
		case model.StatusPending:
			st.Pending++
		case model.StatusConflict:
			st.Conflicts++
		}
	}
	return st
}

// MarkDeleted hides the record from default views. Sync status is not touched;
// persisted records remember that deletion state must be pushed.
func (s *Store) MarkDeleted(id int64) error { return s.setDeleted(id, true) }

// MarkRestored reverses MarkDeleted.
func (s *Store) MarkRestored(id int64) error { return s.setDeleted(id, false) }

func (s *Store) setDeleted(id int64, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	r := &s.records[i]
	if r.IsDeleted == deleted {
		return nil
	}
	r.IsDeleted = deleted
	if !r.IsStaged() {
		// повторное переключение возвращает исходное состояние, пушить нечего
		r.DeletionDirty = !r.DeletionDirty
	}
	return nil
}

// ApplyEdit replaces the editable fields. Unknown id is a no-op returning false.
func (s *Store) ApplyEdit(id int64, e Edit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	r := &s.records[i]
	r.Description = e.Description
	r.Category = e.Category
	r.Tags = append([]string{}, e.Tags...)
	r.AppMetadata = e.AppMetadata.Clone()
	r.LinkedProductGlobalIDs = append([]int64{}, e.LinkedProductGlobalIDs...)
	r.LocalLastUpdatedUTC = s.clock().UTC().Format(time.RFC3339)
	return true
}

// SetLinkedProducts replaces only the linked product ids.
func (s *Store) SetLinkedProducts(id int64, ids []int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.records[i].LinkedProductGlobalIDs = append([]int64{}, ids...)
	return true
}

// ReconcileSyncResult binds an uploaded record to its server identity.
// Only id, remote fields, status, file payload and sync error change.
func (s *Store) ReconcileSyncResult(oldID int64, p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(oldID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, oldID)
	}
	if p.NewID != oldID && s.index(p.NewID) >= 0 {
		return fmt.Errorf("image id %d already exists", p.NewID)
	}
	r := &s.records[i]
	r.GlobalID = p.NewID
	r.AzureBlobURL = p.BlobURL
	r.CloudLastUpdatedUTC = p.CloudTimestamp
	r.SyncStatus = model.StatusUpToDate
	r.File = nil
	r.SyncError = ""
	return nil
}

// MarkUpToDate marks persisted records as pushed.
func (s *Store) MarkUpToDate(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if i := s.index(id); i >= 0 {
			s.records[i].SyncStatus = model.StatusUpToDate
			s.records[i].DeletionDirty = false
			s.records[i].SyncError = ""
		}
	}
}

// MarkSyncError records a failed upload attempt.
func (s *Store) MarkSyncError(id int64, msg string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.records[i].SyncStatus = model.StatusError
		s.records[i].SyncError = msg
		s.records[i].LastSyncAttempt = at.UTC().Format(time.RFC3339)
	}
}

// NextStagedID returns a fresh negative id for the index-th file of a batch:
// -(unixMillis*1000 + index), pushed further down when it would collide.
func (s *Store) NextStagedID(index int) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := -(s.clock().UnixMilli()*1000 + int64(index))
	if s.lastID != 0 && id >= s.lastID {
		id = s.lastID - 1
	}
	for s.index(id) >= 0 {
		id--
	}
	s.lastID = id
	return id
}

func (s *Store) index(id int64) int {
	for i := range s.records {
		if s.records[i].GlobalID == id {
			return i
		}
	}
	return -1
}
