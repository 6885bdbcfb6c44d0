package reminders

import (
	"context"
	"fmt"
	"strings"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
)

type repo interface {
	Add(ctx context.Context, reminder Reminder) (*Reminder, error)
	List(ctx context.Context) ([]Reminder, error)
	SetEnabled(ctx context.Context, id int, enabled bool) error
	Delete(ctx context.Context, id int) error
}

type Service struct {
	repo repo
}

func NewService(repo repo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) Add(ctx context.Context, label, timeOfDay string) (_ *Reminder, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reminders.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if err := validateTime(timeOfDay); err != nil {
		return nil, err
	}

	reminder, err := s.repo.Add(ctx, Reminder{
		Label:   label,
		Time:    timeOfDay,
		Enabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("add reminder: %w", err)
	}
	return reminder, nil
}

func (s *Service) List(ctx context.Context) (_ []Reminder, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reminders.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.List(ctx)
}

func (s *Service) SetEnabled(ctx context.Context, id int, enabled bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reminders.setenabled")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.SetEnabled(ctx, id, enabled)
}

func (s *Service) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.reminders.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.repo.Delete(ctx, id)
}
