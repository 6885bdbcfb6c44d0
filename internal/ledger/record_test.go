package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	local := DailyRecord{"2024-01-01": 50}
	remote := DailyRecord{"2024-01-01": 80, "2024-01-02": 30}

	merged := Merge(local, remote)
	assert.Equal(t, DailyRecord{"2024-01-01": 80, "2024-01-02": 30}, merged)

	// commutative
	assert.Equal(t, merged, Merge(remote, local))
}

func TestMerge_Idempotent(t *testing.T) {
	record := DailyRecord{
		"2024-01-01": 50,
		"2024-01-02": 120,
		"2024-01-03": 0,
	}
	assert.Equal(t, record, Merge(record, record))
}

func TestMerge_Monotonic(t *testing.T) {
	a := DailyRecord{"2024-01-01": 50, "2024-01-02": 10}
	b := DailyRecord{"2024-01-02": 5, "2024-01-03": 70}

	merged := Merge(a, b)
	for day, count := range a {
		assert.GreaterOrEqual(t, merged[day], count)
	}
	for day, count := range b {
		assert.GreaterOrEqual(t, merged[day], count)
	}
}

func TestMerge_EmptySides(t *testing.T) {
	record := DailyRecord{"2024-01-01": 50}
	assert.Equal(t, record, Merge(record, DailyRecord{}))
	assert.Equal(t, record, Merge(DailyRecord{}, record))
	assert.Empty(t, Merge(DailyRecord{}, DailyRecord{}))
}

func TestClone(t *testing.T) {
	record := DailyRecord{"2024-01-01": 50}
	cloned := record.Clone()
	cloned["2024-01-01"] = 10
	assert.Equal(t, 50, record["2024-01-01"])
}
