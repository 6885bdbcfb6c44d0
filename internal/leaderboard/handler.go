package leaderboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beeegaf/pushup-tracker/internal/group"
	"github.com/beeegaf/pushup-tracker/internal/telemetry/tracing"
	"github.com/beeegaf/pushup-tracker/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	feed *Feed
}

func NewHandler(feed *Feed) *Handler {
	return &Handler{
		feed: feed,
	}
}

func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.leaderboard.get")
	defer span.End()

	mode := ParseSortMode(r.URL.Query().Get("sort"))
	entries, err := h.feed.Leaderboard(mode)
	if err != nil {
		if errors.Is(err, group.ErrNotJoined) {
			http.Error(w, "not in a group", http.StatusNotFound)
			return
		}
		log.Errorf("get leaderboard: %s", err)
		http.Error(w, "get leaderboard failed", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	entriesJson, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("failed to marshal leaderboard: %s", err)
		http.Error(w, "get leaderboard failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, entriesJson)
}

func (h *Handler) HandleWeeklyWinner(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.leaderboard.weeklywinner")
	defer span.End()

	winner, err := h.feed.LastWeekWinner(ctx)
	if err != nil {
		if errors.Is(err, group.ErrNotJoined) {
			http.Error(w, "not in a group", http.StatusNotFound)
			return
		}
		log.Errorf("get weekly winner: %s", err)
		http.Error(w, "get weekly winner failed", http.StatusInternalServerError)
		return
	}
	if winner == nil {
		http.Error(w, "no activity last week", http.StatusNotFound)
		return
	}

	winnerJson, err := json.Marshal(winner)
	if err != nil {
		log.Errorf("failed to marshal weekly winner: %s", err)
		http.Error(w, "get weekly winner failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, winnerJson)
}
