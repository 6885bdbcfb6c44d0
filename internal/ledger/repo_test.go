package ledger

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dayRows feeds canned day/reps pairs through the pgx.Rows interface
// and can simulate a connection dropping mid-iteration.
type dayRows struct {
	days    []string
	reps    []int
	pos     int
	iterErr error
}

func (r *dayRows) Next() bool {
	if r.pos < len(r.days) {
		r.pos++
		return true
	}
	return false
}

func (r *dayRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.days[r.pos-1]
	*dest[1].(*int) = r.reps[r.pos-1]
	return nil
}

func (r *dayRows) Err() error                                   { return r.iterErr }
func (r *dayRows) Close()                                       {}
func (r *dayRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *dayRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *dayRows) Values() ([]any, error)                       { return nil, nil }
func (r *dayRows) RawValues() [][]byte                          { return nil }
func (r *dayRows) Conn() *pgx.Conn                              { return nil }

func TestScanDailyRecord(t *testing.T) {
	record, err := scanDailyRecord(&dayRows{
		days: []string{"2024-02-09", "2024-02-10"},
		reps: []int{130, 45},
	})
	require.NoError(t, err)
	assert.Equal(t, DailyRecord{"2024-02-09": 130, "2024-02-10": 45}, record)
}

func TestScanDailyRecord_IterationError(t *testing.T) {
	iterErr := errors.New("conn closed")
	record, err := scanDailyRecord(&dayRows{
		days:    []string{"2024-02-09"},
		reps:    []int{130},
		iterErr: iterErr,
	})
	assert.ErrorIs(t, err, iterErr)
	assert.Nil(t, record, "a truncated record must not pass as complete")
}
