package ledger

import (
	"context"
	"fmt"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetAll(ctx context.Context) (_ DailyRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.getall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT day, reps FROM pushup_day;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDailyRecord(rows)
}

func scanDailyRecord(rows pgx.Rows) (DailyRecord, error) {
	record := make(DailyRecord)
	for rows.Next() {
		var day string
		var reps int
		if err := rows.Scan(&day, &reps); err != nil {
			return nil, err
		}
		record[day] = reps
	}
	// an error mid-iteration shows up here, not in Next; a truncated
	// record must never be returned as if it were complete
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *Repo) GetDay(ctx context.Context, day string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.getday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT reps FROM pushup_day WHERE day = $1;`, day)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		// absent entries imply zero
		return 0, nil
	}

	var reps int
	if err := rows.Scan(&reps); err != nil {
		return 0, err
	}
	return reps, nil
}

// SetDay stores the count for a single day, replacing any previous value.
// Counts are clamped at zero before hitting the table.
func (r *Repo) SetDay(ctx context.Context, day string, reps int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.setday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if reps < 0 {
		reps = 0
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO pushup_day (day, reps)
		VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE SET reps = EXCLUDED.reps;
	`, day, reps)
	return err
}

// MergeIn raises the stored counts to at least the given record's
// values, per day. Existing days never get lowered.
func (r *Repo) MergeIn(ctx context.Context, record DailyRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.ledger.mergein")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	for day, reps := range record {
		if reps < 0 {
			reps = 0
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO pushup_day (day, reps)
			VALUES ($1, $2)
			ON CONFLICT (day) DO UPDATE
				SET reps = GREATEST(pushup_day.reps, EXCLUDED.reps);
		`, day, reps); err != nil {
			return err
		}
	}

	return nil
}
