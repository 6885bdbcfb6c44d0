package ledger

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/metrics"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
	"github.com/beeegaf/pushup-tracker/pkg"

	log "github.com/sirupsen/logrus"
)

// syncPusher uploads the local record to the group in the background.
// It is a no-op when no group is joined.
type syncPusher interface {
	Push(ctx context.Context)
}

type Handler struct {
	service *Service
	pusher  syncPusher
	metrics *metrics.Manager
}

func NewHandler(service *Service, pusher syncPusher, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		pusher:  pusher,
		metrics: metricsManager,
	}
}

type addRepsRequest struct {
	Count int `json:"count"`
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.add")
	defer span.End()

	var req addRepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add pushups, unmarshal json params: %s", err)
		http.Error(w, "add pushups failed", http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		http.Error(w, "error, count must be positive", http.StatusBadRequest)
		return
	}

	result, err := h.service.AddReps(ctx, req.Count)
	if err != nil {
		log.Errorf("add %d pushups: %s", req.Count, err)
		http.Error(w, "add pushups failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterRepsAdded.Add(float64(req.Count))
	h.pusher.Push(ctx)

	if result.GoalReached {
		log.Infof("daily goal reached at %d", result.Count)
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal add result: %s", err)
		http.Error(w, "add pushups failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}

func (h *Handler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.undo")
	defer span.End()

	result, err := h.service.UndoLast(ctx)
	if err != nil {
		log.Errorf("undo last add: %s", err)
		http.Error(w, "undo failed", http.StatusInternalServerError)
		return
	}

	h.metrics.CounterRepsUndone.Inc()
	h.pusher.Push(ctx)

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal undo result: %s", err)
		http.Error(w, "undo failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resultJson)
}

func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.today")
	defer span.End()

	count, err := h.service.TodayCount(ctx)
	if err != nil {
		log.Errorf("get today count: %s", err)
		http.Error(w, "get today count failed", http.StatusInternalServerError)
		return
	}

	day := DateKey(h.service.now())
	todayJson, err := json.Marshal(struct {
		Day   string `json:"day"`
		Count int    `json:"count"`
		Goal  int    `json:"goal"`
	}{
		Day:   day,
		Count: count,
		Goal:  DailyGoal,
	})
	if err != nil {
		log.Errorf("failed to marshal today count: %s", err)
		http.Error(w, "get today count failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, todayJson)
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pushups.record")
	defer span.End()

	record, err := h.service.Record(ctx)
	if err != nil {
		log.Errorf("get pushup record: %s", err)
		http.Error(w, "get record failed", http.StatusInternalServerError)
		return
	}

	recordJson, err := json.Marshal(record)
	if err != nil {
		log.Errorf("failed to marshal pushup record: %s", err)
		http.Error(w, "get record failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, recordJson)
}
