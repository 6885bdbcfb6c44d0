package ledger

import (
	"context"
	"sync"
)

type repoMock struct {
	mu     sync.Mutex
	record DailyRecord
}

func NewMockLedgerRepo() *repoMock {
	return &repoMock{
		record: make(DailyRecord),
	}
}

func (r *repoMock) GetAll(_ context.Context) (DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record.Clone(), nil
}

func (r *repoMock) GetDay(_ context.Context, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record[day], nil
}

func (r *repoMock) SetDay(_ context.Context, day string, reps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reps < 0 {
		reps = 0
	}
	r.record[day] = reps
	return nil
}

func (r *repoMock) MergeIn(_ context.Context, record DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = Merge(r.record, record)
	return nil
}
