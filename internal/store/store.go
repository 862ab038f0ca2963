package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"maintenance-tracker-backend/internal/kv"
	"maintenance-tracker-backend/internal/model"
)

// Keys under which the collections are persisted as JSON blobs.
const (
	machinesKey = "machine_records"
	historyKey  = "maintenance_history"
)

// ErrNotFound is returned when no machine record matches the requested id.
var ErrNotFound = errors.New("machine not found")

// Clock supplies the current time; injectable so tests can pin it.
type Clock func() time.Time

// MachineStore owns the authoritative in-memory collections of machine
// records and maintenance history, mirrored to durable key-value storage.
// Every mutation rewrites the whole affected collection; acceptable at the
// expected scale of tens of records per user. All mutations are serialized
// through a single mutex so concurrent callers cannot race on a stale
// read-modify-write of the collection.
type MachineStore struct {
	mu    sync.Mutex
	kv    kv.Store
	clock Clock

	machines []model.MachineRecord
	history  []model.MaintenanceRecord
}

// NewMachineStore creates a store backed by the given key-value storage.
// A nil clock defaults to time.Now.
func NewMachineStore(kvStore kv.Store, clock Clock) *MachineStore {
	if clock == nil {
		clock = time.Now
	}
	return &MachineStore{kv: kvStore, clock: clock}
}

// Load reads the persisted blobs and populates the in-memory collections.
// A missing blob yields an empty collection, not an error.
func (s *MachineStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Reload re-reads the persisted blobs, overwriting in-memory state. Used to
// force-refresh after an out-of-band mutation.
func (s *MachineStore) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *MachineStore) loadLocked(ctx context.Context) error {
	machines, err := loadCollection[model.MachineRecord](ctx, s.kv, machinesKey)
	if err != nil {
		return err
	}
	history, err := loadCollection[model.MaintenanceRecord](ctx, s.kv, historyKey)
	if err != nil {
		return err
	}
	s.machines = machines
	s.history = history
	return nil
}

func loadCollection[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s blob: %w", key, err)
	}
	return out, nil
}

// List returns the records owned by the given user. An empty userID returns
// every record.
func (s *MachineStore) List(userID string) []model.MachineRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.MachineRecord, 0, len(s.machines))
	for _, m := range s.machines {
		if userID == "" || m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the record with the given id.
func (s *MachineStore) Get(id string) (model.MachineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.machines {
		if m.ID == id {
			return m, nil
		}
	}
	return model.MachineRecord{}, ErrNotFound
}

// Add assigns a new id and creation timestamp, appends the record and
// persists the full collection. The stored record is returned.
func (s *MachineStore) Add(ctx context.Context, rec model.MachineRecord) (model.MachineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = "active"
	}

	s.machines = append(s.machines, rec)
	if err := s.persistMachines(ctx); err != nil {
		// Roll back the in-memory append so memory matches storage.
		s.machines = s.machines[:len(s.machines)-1]
		return model.MachineRecord{}, err
	}
	return rec, nil
}

// UpdateFields carries the partial fields merged into a record by Update.
// Nil pointers and nil slices leave the corresponding field unchanged.
type UpdateFields struct {
	MachineName         *string
	MachineBrand        *string
	MachineModel        *string
	PurchaseDate        *time.Time
	MaintenanceSchedule []string
	MaintenanceTypes    []string
	Status              *string
}

// Update merges fields into the matching record and persists the full
// collection. Returns ErrNotFound when the id is absent.
func (s *MachineStore) Update(ctx context.Context, id string, fields UpdateFields) (model.MachineRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return model.MachineRecord{}, ErrNotFound
	}

	prev := s.machines[i]
	rec := &s.machines[i]
	if fields.MachineName != nil {
		rec.MachineName = *fields.MachineName
	}
	if fields.MachineBrand != nil {
		rec.MachineBrand = *fields.MachineBrand
	}
	if fields.MachineModel != nil {
		rec.MachineModel = *fields.MachineModel
	}
	if fields.PurchaseDate != nil {
		rec.PurchaseDate = fields.PurchaseDate
	}
	if fields.MaintenanceSchedule != nil {
		rec.MaintenanceSchedule = fields.MaintenanceSchedule
		// The cached next date was derived from the old schedule.
		rec.NextMaintenanceDate = nil
	}
	if fields.MaintenanceTypes != nil {
		rec.MaintenanceTypes = fields.MaintenanceTypes
	}
	if fields.Status != nil {
		rec.Status = *fields.Status
	}
	rec.UpdatedAt = s.clock()

	if err := s.persistMachines(ctx); err != nil {
		s.machines[i] = prev
		return model.MachineRecord{}, err
	}
	return *rec, nil
}

// Delete removes the record and every maintenance-history entry referencing
// it, persisting both collections.
func (s *MachineStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}

	prevMachines, prevHistory := s.machines, s.history

	machines := make([]model.MachineRecord, 0, len(s.machines)-1)
	machines = append(machines, s.machines[:i]...)
	machines = append(machines, s.machines[i+1:]...)
	s.machines = machines

	history := make([]model.MaintenanceRecord, 0, len(s.history))
	for _, h := range s.history {
		if h.MachineID != id {
			history = append(history, h)
		}
	}
	s.history = history

	if err := s.persistMachines(ctx); err != nil {
		s.machines, s.history = prevMachines, prevHistory
		return err
	}
	if err := s.persistHistory(ctx); err != nil {
		logrus.WithError(err).WithField("machine_id", id).
			Error("machine deleted but history persist failed")
		return err
	}
	return nil
}

// History returns the maintenance-history entries for the given machine,
// oldest first.
func (s *MachineStore) History(machineID string) []model.MaintenanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.MaintenanceRecord
	for _, h := range s.history {
		if h.MachineID == machineID {
			out = append(out, h)
		}
	}
	return out
}

// RecordCompletion atomically replaces the machine record with its completed
// state and appends the immutable history entry, persisting both
// collections under the same lock so a concurrent mutation cannot interleave.
func (s *MachineStore) RecordCompletion(ctx context.Context, updated model.MachineRecord, entry model.MaintenanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(updated.ID)
	if i < 0 {
		return ErrNotFound
	}

	prev := s.machines[i]
	s.machines[i] = updated
	s.history = append(s.history, entry)

	if err := s.persistMachines(ctx); err != nil {
		s.machines[i] = prev
		s.history = s.history[:len(s.history)-1]
		return err
	}
	if err := s.persistHistory(ctx); err != nil {
		logrus.WithError(err).WithField("machine_id", updated.ID).
			Error("completion recorded but history persist failed")
		return err
	}
	return nil
}

func (s *MachineStore) indexLocked(id string) int {
	for i, m := range s.machines {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *MachineStore) persistMachines(ctx context.Context) error {
	return persistCollection(ctx, s.kv, machinesKey, s.machines)
}

func (s *MachineStore) persistHistory(ctx context.Context) error {
	return persistCollection(ctx, s.kv, historyKey, s.history)
}

func persistCollection[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s blob: %w", key, err)
	}
	return store.Set(ctx, key, string(raw))
}
