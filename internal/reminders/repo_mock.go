package reminders

import (
	"context"
	"sort"
	"sync"
)

type repoMock struct {
	mu        sync.Mutex
	nextID    int
	reminders map[int]Reminder
}

func NewMockRemindersRepo() *repoMock {
	return &repoMock{
		nextID:    1,
		reminders: make(map[int]Reminder),
	}
}

func (r *repoMock) Add(_ context.Context, reminder Reminder) (*Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder.ID = r.nextID
	r.nextID++
	r.reminders[reminder.ID] = reminder
	return &reminder, nil
}

func (r *repoMock) List(_ context.Context) ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminders := make([]Reminder, 0, len(r.reminders))
	for _, reminder := range r.reminders {
		reminders = append(reminders, reminder)
	}
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].Time == reminders[j].Time {
			return reminders[i].ID < reminders[j].ID
		}
		return reminders[i].Time < reminders[j].Time
	})
	return reminders, nil
}

func (r *repoMock) SetEnabled(_ context.Context, id int, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder, ok := r.reminders[id]
	if !ok {
		return ErrReminderNotFound
	}
	reminder.Enabled = enabled
	r.reminders[id] = reminder
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return ErrReminderNotFound
	}
	delete(r.reminders, id)
	return nil
}
