package reminders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
	"github.com/beeegaf/pushup-tracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type addReminderRequest struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reminders.add")
	defer span.End()

	var req addReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("add reminder, unmarshal json params: %s", err)
		http.Error(w, "add reminder failed", http.StatusBadRequest)
		return
	}

	reminder, err := h.service.Add(ctx, req.Label, req.Time)
	if err != nil {
		if errors.Is(err, ErrEmptyLabel) || errors.Is(err, ErrInvalidTime) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add reminder [%s] at [%s]: %s", req.Label, req.Time, err)
		http.Error(w, "add reminder failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new reminder added: [%s] at [%s]: %d", reminder.Label, reminder.Time, reminder.ID)

	reminderJson, err := json.Marshal(reminder)
	if err != nil {
		log.Errorf("failed to marshal new reminder: %s", err)
		http.Error(w, "add reminder failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reminderJson, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reminders.list")
	defer span.End()

	reminders, err := h.service.List(ctx)
	if err != nil {
		log.Errorf("list reminders: %s", err)
		http.Error(w, "list reminders failed", http.StatusInternalServerError)
		return
	}
	if reminders == nil {
		reminders = []Reminder{}
	}

	remindersJson, err := json.Marshal(reminders)
	if err != nil {
		log.Errorf("failed to marshal reminders: %s", err)
		http.Error(w, "list reminders failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, remindersJson)
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) HandleSetEnabled(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reminders.setenabled")
	defer span.End()

	id, err := reminderID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req setEnabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("set reminder enabled, unmarshal json params: %s", err)
		http.Error(w, "set reminder enabled failed", http.StatusBadRequest)
		return
	}

	if err := h.service.SetEnabled(ctx, id, req.Enabled); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		log.Errorf("set reminder %d enabled=%t: %s", id, req.Enabled, err)
		http.Error(w, "set reminder enabled failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", id))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reminders.delete")
	defer span.End()

	id, err := reminderID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete reminder %d: %s", id, err)
		http.Error(w, "delete reminder failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func reminderID(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, errors.New("error, id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.New("error, id NaN")
	}
	return id, nil
}
