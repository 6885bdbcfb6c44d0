package group

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	groupKeyPrefix = "pushups:group:"
	// subscription fallback: on top of pub/sub messages, re-poll the
	// roster at a fixed interval so a dropped subscription degrades to
	// slightly stale data instead of staying silently frozen
	rosterRepollInterval = time.Minute
)

// RedisStore implements RemoteStore on a redis backend: the roster is
// a set, member records are JSON values, weekly winners live in a
// hash written with HSetNX, and member updates are fanned out over
// pub/sub.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb: rdb,
	}
}

func groupKey(code string) string {
	return groupKeyPrefix + code
}

func rosterKey(code string) string {
	return groupKeyPrefix + code + ":roster"
}

func memberKey(code, name string) string {
	return groupKeyPrefix + code + ":member:" + name
}

func winnersKey(code string) string {
	return groupKeyPrefix + code + ":winners"
}

func updatesChannel(code string) string {
	return groupKeyPrefix + code + ":updates"
}

func (s *RedisStore) GroupExists(ctx context.Context, code string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.exists")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := s.rdb.Exists(ctx, groupKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *RedisStore) CreateGroup(ctx context.Context, code string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.rdb.SetNX(ctx, groupKey(code), time.Now().UTC().Format(time.RFC3339), 0).Err()
}

func (s *RedisStore) AddToRoster(ctx context.Context, code, name string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.addtoroster")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.rdb.SAdd(ctx, rosterKey(code), name).Err()
}

func (s *RedisStore) Roster(ctx context.Context, code string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.roster")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.rdb.SMembers(ctx, rosterKey(code)).Result()
}

func (s *RedisStore) Member(ctx context.Context, code, name string) (_ *MemberRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.member")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := s.rdb.Get(ctx, memberKey(code, name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	var member MemberRecord
	if err := json.Unmarshal([]byte(raw), &member); err != nil {
		return nil, fmt.Errorf("unmarshal member record: %w", err)
	}
	return &member, nil
}

// PutMember replaces the member's record whole (last write wins) and
// notifies subscribers.
func (s *RedisStore) PutMember(ctx context.Context, code string, member MemberRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.putmember")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("marshal member record: %w", err)
	}

	if err := s.rdb.Set(ctx, memberKey(code, member.DisplayName), raw, 0).Err(); err != nil {
		return err
	}

	if err := s.rdb.Publish(ctx, updatesChannel(code), member.DisplayName).Err(); err != nil {
		// the write itself succeeded; subscribers will catch up on re-poll
		log.Errorf("publish member update for group [%s]: %s", code, err)
	}
	return nil
}

func (s *RedisStore) Members(ctx context.Context, code string) (_ []MemberRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.members")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	roster, err := s.Roster(ctx, code)
	if err != nil {
		return nil, err
	}

	members := make([]MemberRecord, 0, len(roster))
	for _, name := range roster {
		member, err := s.Member(ctx, code, name)
		if errors.Is(err, ErrMemberNotFound) {
			// joined but never synced yet
			members = append(members, MemberRecord{DisplayName: name})
			continue
		}
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}

	return members, nil
}

func (s *RedisStore) WeeklyWinnerFor(ctx context.Context, code, weekKey string) (_ *WeeklyWinner, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.weeklywinner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := s.rdb.HGet(ctx, winnersKey(code), weekKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrWinnerNotSet
	}
	if err != nil {
		return nil, err
	}

	var winner WeeklyWinner
	if err := json.Unmarshal([]byte(raw), &winner); err != nil {
		return nil, fmt.Errorf("unmarshal weekly winner: %w", err)
	}
	return &winner, nil
}

func (s *RedisStore) SetWeeklyWinner(ctx context.Context, code string, winner WeeklyWinner) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.group.setweeklywinner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := json.Marshal(winner)
	if err != nil {
		return false, fmt.Errorf("marshal weekly winner: %w", err)
	}

	// HSetNX keeps the first settled result; later computations lose
	return s.rdb.HSetNX(ctx, winnersKey(code), winner.WeekKey, raw).Result()
}

// Subscribe delivers an initial roster snapshot, then a fresh one on
// every published member update. The returned CancelFunc blocks until
// the delivery goroutine has exited, so no callback fires after it.
func (s *RedisStore) Subscribe(ctx context.Context, code string, onSnapshot SnapshotFunc) (CancelFunc, error) {
	sub := s.rdb.Subscribe(ctx, updatesChannel(code))

	// confirm the subscription before returning
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe to group updates: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		deliver := func() {
			members, err := s.Members(subCtx, code)
			if err != nil {
				log.Errorf("group [%s] subscription: load roster: %s", code, err)
				return
			}
			onSnapshot(members)
		}

		deliver()

		repoll := time.NewTicker(rosterRepollInterval)
		defer repoll.Stop()

		ch := sub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				deliver()
			case <-repoll.C:
				deliver()
			}
		}
	}()

	return func() {
		cancel()
		if err := sub.Close(); err != nil {
			log.Errorf("close group [%s] subscription: %s", code, err)
		}
		<-done
	}, nil
}
