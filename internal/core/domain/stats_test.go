package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunStats_Reset(t *testing.T) {
	s := RunStats{Received: 3, Created: 2, Updated: 1, Saved: 3, Cancelled: 1, Pages: 2}
	s.Reset()
	assert.Equal(t, RunStats{}, s)
}

func TestRunStats_String(t *testing.T) {
	s := RunStats{Received: 2, Created: 2, Saved: 2, Cancelled: 1, Pages: 1}
	assert.Equal(t, "received=2 created=2 updated=0 saved=2 cancelled=1 pages=1", s.String())
}

func TestTouchedSet(t *testing.T) {
	touched := NewTouchedSet()
	touched.MarkSeen("a")
	touched.MarkCancelled("b")

	assert.True(t, touched["a"])
	assert.False(t, touched["b"])
	assert.True(t, touched.Contains("b"))
	assert.False(t, touched.Contains("c"))

	touched.MarkCancelled("a")
	assert.False(t, touched["a"])
}

func TestSyncRun_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	run := &SyncRun{StartedAt: start}
	assert.Zero(t, run.Duration())

	run.FinishedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, run.Duration())
}

func TestPolicies_Parse(t *testing.T) {
	p, err := ParseOwnershipPolicy("by_name")
	assert.NoError(t, err)
	assert.Equal(t, OwnershipByName, p)

	_, err = ParseOwnershipPolicy("by_phone")
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := ParseCleanupPolicy("delete_old")
	assert.NoError(t, err)
	assert.Equal(t, CleanupDeleteOld, c)

	_, err = ParseCleanupPolicy("delete_all")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
