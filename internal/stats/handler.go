package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/beeegaf/pushup-tracker/internal/ledger"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
	"github.com/beeegaf/pushup-tracker/pkg"

	log "github.com/sirupsen/logrus"
)

type recordSource interface {
	Record(ctx context.Context) (ledger.DailyRecord, error)
}

type Handler struct {
	records recordSource
	now     func() time.Time
}

func NewHandler(records recordSource, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		records: records,
		now:     now,
	}
}

// Summary bundles everything the stats view needs in one response.
type Summary struct {
	Streaks
	Total      int `json:"total"`
	TodayCount int `json:"todayCount"`
	DailyGoal  int `json:"dailyGoal"`
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.summary")
	defer span.End()

	record, err := h.records.Record(ctx)
	if err != nil {
		log.Errorf("get stats summary: %s", err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}

	now := h.now()
	summary := Summary{
		Streaks:    Calculate(record, now),
		Total:      Total(record),
		TodayCount: record.Count(ledger.DateKey(now)),
		DailyGoal:  ledger.DailyGoal,
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("failed to marshal stats summary: %s", err)
		http.Error(w, "get stats failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.history")
	defer span.End()

	record, err := h.records.Record(ctx)
	if err != nil {
		log.Errorf("get pushup history: %s", err)
		http.Error(w, "get history failed", http.StatusInternalServerError)
		return
	}

	historyJson, err := json.Marshal(History(record, h.now()))
	if err != nil {
		log.Errorf("failed to marshal pushup history: %s", err)
		http.Error(w, "get history failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, historyJson)
}

func (h *Handler) HandleMedals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.medals")
	defer span.End()

	record, err := h.records.Record(ctx)
	if err != nil {
		log.Errorf("get medals: %s", err)
		http.Error(w, "get medals failed", http.StatusInternalServerError)
		return
	}

	streaks := Calculate(record, h.now())
	medalsJson, err := json.Marshal(Evaluate(record, streaks.BestStreak))
	if err != nil {
		log.Errorf("failed to marshal medals: %s", err)
		http.Error(w, "get medals failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, medalsJson)
}
