package group

import (
	"context"
	"errors"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")
)

// SnapshotFunc receives the complete current roster. Each delivery is
// authoritative: handlers must not assume incremental diffs.
type SnapshotFunc func(members []MemberRecord)

// CancelFunc tears down a roster subscription. After it returns no
// further snapshot callbacks fire.
type CancelFunc func()

// RemoteStore is the capability interface over the shared group
// document store. The sync protocol depends only on this, not on a
// specific backend.
type RemoteStore interface {
	GroupExists(ctx context.Context, code string) (bool, error)
	CreateGroup(ctx context.Context, code string) error
	// AddToRoster is an idempotent union: re-adding a name is a no-op.
	AddToRoster(ctx context.Context, code, name string) error
	Roster(ctx context.Context, code string) ([]string, error)
	Member(ctx context.Context, code, name string) (*MemberRecord, error)
	PutMember(ctx context.Context, code string, member MemberRecord) error
	Members(ctx context.Context, code string) ([]MemberRecord, error)
	// WeeklyWinnerFor returns ErrWinnerNotSet when the week is unsettled.
	WeeklyWinnerFor(ctx context.Context, code, weekKey string) (*WeeklyWinner, error)
	// SetWeeklyWinner stores the winner only if the week is still
	// unsettled and reports whether this call won the write.
	SetWeeklyWinner(ctx context.Context, code string, winner WeeklyWinner) (bool, error)
	Subscribe(ctx context.Context, code string, onSnapshot SnapshotFunc) (CancelFunc, error)
}

var ErrWinnerNotSet = errors.New("weekly winner not set")
