package group

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
	"github.com/beeegaf/pushup-tracker/pkg"

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

type joinRequest struct {
	GroupCode   string `json:"groupCode"`
	DisplayName string `json:"displayName"`
}

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.group.join")
	defer span.End()

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("join group, unmarshal json params: %s", err)
		http.Error(w, "join group failed", http.StatusBadRequest)
		return
	}

	profile, err := h.service.Join(ctx, req.GroupCode, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupCodeTooShort), errors.Is(err, ErrEmptyDisplayName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrRemoteUnavailable):
			log.Errorf("join group [%s]: %s", req.GroupCode, err)
			http.Error(w, ErrRemoteUnavailable.Error(), http.StatusServiceUnavailable)
		default:
			log.Errorf("join group [%s]: %s", req.GroupCode, err)
			http.Error(w, "join group failed", http.StatusInternalServerError)
		}
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal group profile: %s", err)
		http.Error(w, "join group failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, profileJson, http.StatusCreated)
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.group.leave")
	defer span.End()

	if err := h.service.Leave(ctx); err != nil {
		if errors.Is(err, ErrNotJoined) {
			http.Error(w, "not in a group", http.StatusNotFound)
			return
		}
		log.Errorf("leave group: %s", err)
		http.Error(w, "leave group failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, "left")
}

func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.group.current")
	defer span.End()

	profile, err := h.service.Current()
	if err != nil {
		if errors.Is(err, ErrNotJoined) {
			http.Error(w, "not in a group", http.StatusNotFound)
			return
		}
		log.Errorf("get current group: %s", err)
		http.Error(w, "get group failed", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal group profile: %s", err)
		http.Error(w, "get group failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}
