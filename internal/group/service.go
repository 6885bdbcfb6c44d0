package group

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/stats"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type localLedger interface {
	Record(ctx context.Context) (ledger.DailyRecord, error)
	TodayCount(ctx context.Context) (int, error)
	MergeRemote(ctx context.Context, remote ledger.DailyRecord) (ledger.DailyRecord, error)
}

type profileRepo interface {
	Get(ctx context.Context) (*Profile, error)
	Save(ctx context.Context, p Profile) error
	Delete(ctx context.Context) error
}

// Service manages membership in a single group: joining, pushing the
// local record to the remote store, and keeping a live subscription to
// the group roster. A device is in at most one group at a time.
type Service struct {
	store    RemoteStore
	profiles profileRepo
	ledger   localLedger
	metrics  *metrics.Manager
	now      func() time.Time

	mu        sync.Mutex
	current   *Profile
	sessionID string
	cancelSub CancelFunc
	listener  SnapshotFunc
}

func NewService(
	store RemoteStore,
	profiles profileRepo,
	ledgerService localLedger,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    store,
		profiles: profiles,
		ledger:   ledgerService,
		metrics:  metricsManager,
		now:      now,
	}
}

// SetSnapshotListener registers the callback that receives every group
// roster snapshot. Set it before Join / Resume.
func (s *Service) SetSnapshotListener(fn SnapshotFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
}

// Join enrolls this device in the group. The code is normalized
// (lowercased, trimmed) before use, so "Team-Alpha " and "team-alpha"
// are the same group. Rejoining under a name that already has remote
// data merges that data into the local ledger with the per-day max
// rule before the first push.
func (s *Service) Join(ctx context.Context, code, name string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.group.join")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	code = Normalize(code)
	name = Normalize(name)
	if err := validateJoin(code, name); err != nil {
		return nil, err
	}

	// remote enrollment first: the previous membership, if any, stays
	// fully intact until the new join has succeeded end to end
	exists, err := s.store.GroupExists(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: check group: %s", ErrRemoteUnavailable, err)
	}
	if !exists {
		if err := s.store.CreateGroup(ctx, code); err != nil {
			return nil, fmt.Errorf("%w: create group: %s", ErrRemoteUnavailable, err)
		}
		log.Debugf("group [%s] created", code)
	}

	if err := s.store.AddToRoster(ctx, code, name); err != nil {
		return nil, fmt.Errorf("%w: add to roster: %s", ErrRemoteUnavailable, err)
	}

	// reconnect case: someone (maybe this device, earlier) already
	// pushed data under this name
	remote, err := s.store.Member(ctx, code, name)
	switch {
	case errors.Is(err, ErrMemberNotFound):
		// fresh member, nothing to merge
	case err != nil:
		return nil, fmt.Errorf("%w: get member: %s", ErrRemoteUnavailable, err)
	case len(remote.PushupData) > 0:
		if _, err := s.ledger.MergeRemote(ctx, remote.PushupData); err != nil {
			return nil, fmt.Errorf("merge remote member data: %w", err)
		}
		log.Debugf("group [%s] member [%s]: merged %d remote days", code, name, len(remote.PushupData))
	}

	profile := Profile{GroupCode: code, DisplayName: name}
	if err := s.pushRecord(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: initial push: %s", ErrRemoteUnavailable, err)
	}

	cancel, err := s.subscribe(code)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe: %s", ErrRemoteUnavailable, err)
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		cancel()
		return nil, fmt.Errorf("save group profile: %w", err)
	}

	s.mu.Lock()
	prevCancel := s.cancelSub
	s.cancelSub = cancel
	s.current = &profile
	sessionID := uuid.NewString()
	s.sessionID = sessionID
	s.mu.Unlock()

	// leaving the previous group is implicit. Canceling blocks until
	// the old delivery goroutine exits, and that goroutine can be
	// inside the snapshot listener calling back into this service, so
	// it must happen with s.mu released.
	if prevCancel != nil {
		prevCancel()
	}

	log.Infof("joined group [%s] as [%s], session %s", code, name, sessionID)

	return &profile, nil
}

// Resume re-establishes group state after a restart. No profile on
// disk means the device never joined, which is not an error.
func (s *Service) Resume(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.group.resume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	profile, err := s.profiles.Get(ctx)
	if errors.Is(err, ErrNotJoined) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get group profile: %w", err)
	}

	remote, err := s.store.Member(ctx, profile.GroupCode, profile.DisplayName)
	if err == nil && len(remote.PushupData) > 0 {
		if _, err := s.ledger.MergeRemote(ctx, remote.PushupData); err != nil {
			return fmt.Errorf("merge remote member data: %w", err)
		}
	} else if err != nil && !errors.Is(err, ErrMemberNotFound) {
		log.Errorf("resume group [%s]: get member: %s", profile.GroupCode, err)
	}

	if err := s.pushRecord(ctx, *profile); err != nil {
		log.Errorf("resume group [%s]: push: %s", profile.GroupCode, err)
	}

	cancel, err := s.subscribe(profile.GroupCode)
	if err != nil {
		return fmt.Errorf("%w: subscribe: %s", ErrRemoteUnavailable, err)
	}

	s.mu.Lock()
	prevCancel := s.cancelSub
	s.cancelSub = cancel
	s.current = profile
	sessionID := uuid.NewString()
	s.sessionID = sessionID
	s.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}

	log.Infof("resumed group [%s] as [%s], session %s", profile.GroupCode, profile.DisplayName, sessionID)

	return nil
}

// Push uploads the current local record to the group in the
// background. Failures are counted and logged, never surfaced to the
// caller: the local ledger is the source of truth and a missed push is
// repaired by the next one.
func (s *Service) Push(ctx context.Context) {
	s.mu.Lock()
	profile := s.current
	s.mu.Unlock()

	if profile == nil {
		return
	}

	pushCtx := context.WithoutCancel(ctx)
	go func() {
		ctx, span := tracing.GlobalTracer.Start(pushCtx, "service.group.push")
		defer span.End()

		if err := s.pushRecord(ctx, *profile); err != nil {
			s.metrics.CounterSyncPushFailures.Inc()
			log.Errorf("push to group [%s] failed: %s", profile.GroupCode, err)
			return
		}
		s.metrics.CounterSyncPushes.Inc()
	}()
}

// Leave drops local membership. The name stays in the remote roster so
// past contributions remain visible to the group.
func (s *Service) Leave(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.group.leave")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return ErrNotJoined
	}

	if err := s.profiles.Delete(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete group profile: %w", err)
	}

	code := s.current.GroupCode
	cancel := s.cancelSub
	listener := s.listener
	s.cancelSub = nil
	s.current = nil
	s.sessionID = ""
	s.mu.Unlock()

	// both of these can re-enter the service through the snapshot
	// listener (e.g. to read the current membership), so they run
	// with the mutex released
	if cancel != nil {
		cancel()
	}
	if listener != nil {
		// clear downstream roster state
		listener(nil)
	}

	log.Infof("left group [%s]", code)

	return nil
}

// Current returns the active membership, or ErrNotJoined.
func (s *Service) Current() (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNotJoined
	}
	p := *s.current
	return &p, nil
}

func (s *Service) pushRecord(ctx context.Context, profile Profile) error {
	record, err := s.ledger.Record(ctx)
	if err != nil {
		return fmt.Errorf("get local record: %w", err)
	}

	now := s.now()
	streaks := stats.Calculate(record, now)

	return s.store.PutMember(ctx, profile.GroupCode, MemberRecord{
		DisplayName:   profile.DisplayName,
		PushupData:    record,
		TodayCount:    record.Count(ledger.DateKey(now)),
		CurrentStreak: streaks.CurrentStreak,
		BestStreak:    streaks.BestStreak,
		LastUpdated:   now.UTC(),
	})
}

// subscribe opens the roster subscription for code. The returned
// cancel blocks until the delivery goroutine exits, and that goroutine
// calls the snapshot listener, which may re-enter this service. Never
// invoke either while holding s.mu.
func (s *Service) subscribe(code string) (CancelFunc, error) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		listener = func([]MemberRecord) {}
	}
	return s.store.Subscribe(context.Background(), code, func(members []MemberRecord) {
		s.metrics.CounterRosterSnapshots.Inc()
		listener(members)
	})
}
