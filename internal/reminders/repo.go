package reminders

import (
	"context"

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

func (r *Repo) Add(ctx context.Context, reminder Reminder) (_ *Reminder, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reminders.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx, `
		INSERT INTO reminder (label, remind_at, enabled)
		VALUES ($1, $2, $3)
		RETURNING id;
	`, reminder.Label, reminder.Time, reminder.Enabled).Scan(&reminder.ID)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// List returns all reminders sorted by time of day.
func (r *Repo) List(ctx context.Context) (_ []Reminder, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reminders.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, label, remind_at, enabled
		FROM reminder
		ORDER BY remind_at, id;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

func scanReminders(rows pgx.Rows) ([]Reminder, error) {
	reminders := make([]Reminder, 0)
	for rows.Next() {
		var reminder Reminder
		if err := rows.Scan(&reminder.ID, &reminder.Label, &reminder.Time, &reminder.Enabled); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	// an error mid-iteration shows up here, not in Next
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *Repo) SetEnabled(ctx context.Context, id int, enabled bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reminders.setenabled")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `UPDATE reminder SET enabled = $1 WHERE id = $2;`, enabled, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reminders.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM reminder WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReminderNotFound
	}
	return nil
}
