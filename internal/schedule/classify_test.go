package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-tracker-backend/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestCadenceDays(t *testing.T) {
	testCases := []struct {
		tag  string
		days int
		ok   bool
	}{
		{CadenceDaily, 1, true},
		{CadenceWeekly, 7, true},
		{CadenceMonthly, 30, true},
		{CadenceQuarterly, 90, true},
		{CadenceSemiAnnually, 180, true},
		{CadenceAnnually, 365, true},
		{"fortnightly", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		days, ok := CadenceDays(tc.tag)
		assert.Equal(t, tc.ok, ok, "tag %q", tc.tag)
		assert.Equal(t, tc.days, days, "tag %q", tc.tag)
	}
}

// The boundary at exactly cadence length minus one day must classify as due
// for every known cadence tag.
func TestClassify_DueBoundaryPerCadence(t *testing.T) {
	for _, tag := range KnownCadences() {
		cadence, ok := CadenceDays(tag)
		require.True(t, ok)

		rec := &model.MachineRecord{
			LastMaintenanceDate: daysAgo(cadence - 1),
			MaintenanceSchedule: []string{tag},
		}
		c, err := Classify(rec, testNow)
		require.NoError(t, err, "tag %q", tag)
		assert.Equal(t, StatusDue, c.Status, "tag %q", tag)
		assert.Equal(t, 1, c.DaysUntil, "tag %q", tag)
	}
}

func TestClassify_WeeklyScenarios(t *testing.T) {
	testCases := []struct {
		name          string
		lastDaysAgo   int
		wantStatus    Status
		wantDaysUntil int
		wantOverdueBy int
	}{
		{"six days ago is due", 6, StatusDue, 1, 0},
		{"seven days ago is due today", 7, StatusDue, 0, 0},
		{"eight days ago is overdue by one", 8, StatusOverdue, -1, 1},
		{"freshly maintained is due next week", 0, StatusDue, 7, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &model.MachineRecord{
				LastMaintenanceDate: daysAgo(tc.lastDaysAgo),
				MaintenanceSchedule: []string{CadenceWeekly},
			}
			c, err := Classify(rec, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, c.Status)
			assert.Equal(t, tc.wantDaysUntil, c.DaysUntil)
			assert.Equal(t, tc.wantOverdueBy, c.OverdueBy)
		})
	}
}

func TestClassify_CachedNextDateWins(t *testing.T) {
	next := testNow.AddDate(0, 0, 90)
	rec := &model.MachineRecord{
		LastMaintenanceDate: daysAgo(100),
		NextMaintenanceDate: &next,
		MaintenanceSchedule: []string{CadenceWeekly},
	}
	c, err := Classify(rec, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusGood, c.Status)
	assert.Equal(t, next, c.NextMaintenanceDate)
}

func TestClassify_PurchaseGracePeriod(t *testing.T) {
	// Never maintained, purchased 40 days ago: first maintenance fell due
	// 10 days ago.
	rec := &model.MachineRecord{
		PurchaseDate:        daysAgo(40),
		MaintenanceSchedule: []string{CadenceWeekly},
	}
	c, err := Classify(rec, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, c.Status)
	assert.Equal(t, 10, c.OverdueBy)
	assert.Equal(t, testNow.AddDate(0, 0, -10), c.NextMaintenanceDate)
}

func TestClassify_NoDatesAtAll(t *testing.T) {
	// Nothing to go on: grace period starts now, never overdue on day one.
	c, err := Classify(&model.MachineRecord{}, testNow)
	require.NoError(t, err)
	assert.Equal(t, StatusUpcoming, c.Status)
	assert.Equal(t, DefaultGraceDays, c.DaysUntil)
}

func TestClassify_UnknownCadence(t *testing.T) {
	rec := &model.MachineRecord{
		LastMaintenanceDate: daysAgo(3),
		MaintenanceSchedule: []string{"fortnightly"},
	}
	_, err := Classify(rec, testNow)
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestClassify_Idempotent(t *testing.T) {
	rec := &model.MachineRecord{
		LastMaintenanceDate: daysAgo(12),
		MaintenanceSchedule: []string{CadenceMonthly},
	}
	first, err := Classify(rec, testNow)
	require.NoError(t, err)
	second, err := Classify(rec, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassify_MultiCadenceUsesFirstTag(t *testing.T) {
	rec := &model.MachineRecord{
		LastMaintenanceDate: daysAgo(10),
		MaintenanceSchedule: []string{CadenceMonthly, CadenceWeekly},
	}
	c, err := Classify(rec, testNow)
	require.NoError(t, err)
	// Monthly is authoritative: 20 days out, not 3 days overdue.
	assert.Equal(t, StatusUpcoming, c.Status)
	assert.Equal(t, 20, c.DaysUntil)
}
