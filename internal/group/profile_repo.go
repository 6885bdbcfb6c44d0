package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepo persists the single local group membership. The table
// holds at most one row; joining a new group overwrites it.
type ProfileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepo(db *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) Get(ctx context.Context) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groupprofile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var p Profile
	err = r.db.QueryRow(ctx,
		`SELECT group_code, display_name FROM group_profile WHERE id = 1`,
	).Scan(&p.GroupCode, &p.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotJoined
	}
	if err != nil {
		return nil, fmt.Errorf("get group profile: %w", err)
	}

	return &p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groupprofile.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx,
		`INSERT INTO group_profile (id, group_code, display_name)
			VALUES (1, $1, $2)
			ON CONFLICT (id) DO UPDATE
			SET group_code = EXCLUDED.group_code, display_name = EXCLUDED.display_name`,
		p.GroupCode, p.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("save group profile: %w", err)
	}
	return nil
}

func (r *ProfileRepo) Delete(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.groupprofile.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err = r.db.Exec(ctx, `DELETE FROM group_profile WHERE id = 1`); err != nil {
		return fmt.Errorf("delete group profile: %w", err)
	}
	return nil
}
