package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
)

type repo interface {
	GetAll(ctx context.Context) (DailyRecord, error)
	GetDay(ctx context.Context, day string) (int, error)
	SetDay(ctx context.Context, day string, reps int) error
	MergeIn(ctx context.Context, record DailyRecord) error
}

// AddResult describes today's state after an add or undo.
type AddResult struct {
	Day         string `json:"day"`
	Count       int    `json:"count"`
	Added       int    `json:"added"`
	GoalReached bool   `json:"goalReached"`
}

// Service owns the local ledger mutation path. The last added amount
// lives here, not in package state, and is cleared by UndoLast.
type Service struct {
	repo repo
	now  func() time.Time

	mu        sync.Mutex
	lastAdded int
}

func NewService(repo repo, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo: repo,
		now:  now,
	}
}

// AddReps increments today's count by amount. Amounts of zero or less
// are a silent no-op. GoalReached is set only when this addition
// crosses the daily goal, so callers can fire a one-time celebration.
func (s *Service) AddReps(ctx context.Context, amount int) (_ *AddResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.ledger.addreps")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	day := DateKey(s.now())
	current, err := s.repo.GetDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get today count: %w", err)
	}

	if amount <= 0 {
		return &AddResult{
			Day:   day,
			Count: current,
		}, nil
	}

	updated := current + amount
	if err := s.repo.SetDay(ctx, day, updated); err != nil {
		return nil, fmt.Errorf("set today count: %w", err)
	}
	s.lastAdded = amount

	return &AddResult{
		Day:         day,
		Count:       updated,
		Added:       amount,
		GoalReached: current < DailyGoal && updated >= DailyGoal,
	}, nil
}

// UndoLast reverts the single most recent addition. Only one undo is
// possible per add; calling it again without an intervening add is a
// no-op.
func (s *Service) UndoLast(ctx context.Context) (_ *AddResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.ledger.undolast")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	day := DateKey(s.now())
	current, err := s.repo.GetDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get today count: %w", err)
	}

	if s.lastAdded == 0 {
		return &AddResult{
			Day:   day,
			Count: current,
		}, nil
	}

	updated := current - s.lastAdded
	if updated < 0 {
		updated = 0
	}
	if err := s.repo.SetDay(ctx, day, updated); err != nil {
		return nil, fmt.Errorf("set today count: %w", err)
	}
	s.lastAdded = 0

	return &AddResult{
		Day:   day,
		Count: updated,
	}, nil
}

// Record returns a snapshot of the full ledger.
func (s *Service) Record(ctx context.Context) (_ DailyRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.ledger.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	record, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	return record, nil
}

// TodayCount returns today's repetition count.
func (s *Service) TodayCount(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.ledger.todaycount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.GetDay(ctx, DateKey(s.now()))
}

// MergeRemote merges a remote replica's record into the local ledger
// with the per-day max rule and returns the merged result. Local
// counts are never lowered.
func (s *Service) MergeRemote(ctx context.Context, remote DailyRecord) (_ DailyRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.ledger.mergeremote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := s.repo.MergeIn(ctx, remote); err != nil {
		return nil, fmt.Errorf("merge remote record: %w", err)
	}

	merged, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get merged ledger: %w", err)
	}
	return merged, nil
}
