package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-tracker-backend/internal/kv"
	"maintenance-tracker-backend/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestStore() *MachineStore {
	return NewMachineStore(kv.NewMemoryStore(), fixedClock)
}

func sampleRecord(userID string) model.MachineRecord {
	return model.MachineRecord{
		UserID:              userID,
		MachineName:         "Espresso Machine",
		MachineBrand:        "Rancilio",
		MachineModel:        "Silvia",
		MaintenanceSchedule: []string{"weekly"},
		MaintenanceTypes:    []string{"descale", "backflush"},
	}
}

func TestMachineStore_LoadEmptyStorage(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.List(""))
}

func TestMachineStore_AddAssignsIDAndDefaults(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	added, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "active", added.Status)
	assert.Equal(t, testNow, added.CreatedAt)

	second, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)
	assert.NotEqual(t, added.ID, second.ID)
}

func TestMachineStore_PersistenceRoundTrip(t *testing.T) {
	kvStore := kv.NewMemoryStore()
	ctx := context.Background()

	s := NewMachineStore(kvStore, fixedClock)
	require.NoError(t, s.Load(ctx))
	added, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)

	// A fresh store over the same storage sees the persisted record.
	fresh := NewMachineStore(kvStore, fixedClock)
	require.NoError(t, fresh.Load(ctx))

	got, err := fresh.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.MachineName, got.MachineName)
	assert.Equal(t, added.MaintenanceSchedule, got.MaintenanceSchedule)
	assert.Equal(t, added.ID, got.ID)
}

func TestMachineStore_ReloadOverwritesMemory(t *testing.T) {
	kvStore := kv.NewMemoryStore()
	ctx := context.Background()

	a := NewMachineStore(kvStore, fixedClock)
	b := NewMachineStore(kvStore, fixedClock)
	require.NoError(t, a.Load(ctx))
	require.NoError(t, b.Load(ctx))

	_, err := a.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)

	// b is stale until it reloads.
	assert.Empty(t, b.List("user-1"))
	require.NoError(t, b.Reload(ctx))
	assert.Len(t, b.List("user-1"), 1)
}

func TestMachineStore_UpdateMergesFields(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	added, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)

	name := "Grinder"
	updated, err := s.Update(ctx, added.ID, UpdateFields{MachineName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Grinder", updated.MachineName)
	// Untouched fields survive the merge.
	assert.Equal(t, added.MachineBrand, updated.MachineBrand)
	assert.Equal(t, added.MaintenanceSchedule, updated.MaintenanceSchedule)
}

func TestMachineStore_UpdateScheduleDropsCachedNextDate(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	rec := sampleRecord("user-1")
	next := testNow.AddDate(0, 0, 7)
	rec.NextMaintenanceDate = &next
	added, err := s.Add(ctx, rec)
	require.NoError(t, err)

	updated, err := s.Update(ctx, added.ID, UpdateFields{MaintenanceSchedule: []string{"monthly"}})
	require.NoError(t, err)
	assert.Nil(t, updated.NextMaintenanceDate)
}

func TestMachineStore_UpdateNotFound(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Update(context.Background(), "nope", UpdateFields{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMachineStore_DeleteRemovesHistory(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	added, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)

	completed := added
	last := testNow
	completed.LastMaintenanceDate = &last
	entry := model.MaintenanceRecord{
		ID:          "hist-1",
		MachineID:   added.ID,
		UserID:      "user-1",
		CompletedAt: testNow,
	}
	require.NoError(t, s.RecordCompletion(ctx, completed, entry))
	require.Len(t, s.History(added.ID), 1)

	require.NoError(t, s.Delete(ctx, added.ID))

	_, err = s.Get(added.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.History(added.ID))

	// The deletion is durable: a reload does not resurrect anything.
	require.NoError(t, s.Reload(ctx))
	assert.Empty(t, s.List("user-1"))
	assert.Empty(t, s.History(added.ID))
}

func TestMachineStore_DeleteNotFound(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Load(context.Background()))
	assert.ErrorIs(t, s.Delete(context.Background(), "nope"), ErrNotFound)
}

func TestMachineStore_RecordCompletionNotFound(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Load(context.Background()))

	err := s.RecordCompletion(context.Background(),
		model.MachineRecord{ID: "nope"}, model.MaintenanceRecord{MachineID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMachineStore_ListFiltersByUser(t *testing.T) {
	s := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	_, err := s.Add(ctx, sampleRecord("user-1"))
	require.NoError(t, err)
	_, err = s.Add(ctx, sampleRecord("user-2"))
	require.NoError(t, err)

	assert.Len(t, s.List("user-1"), 1)
	assert.Len(t, s.List(""), 2)
}
