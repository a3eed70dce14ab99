package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/apperr"
	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/hermes"
	"github.com/Lehoufi/AHP/internal/store"
)

type rankingView struct {
	DecisionID uuid.UUID `json:"decision_id"`
	Version    int       `json:"version"`
	*decision.Ranking
}

// Ranking synthesises the alternatives, records the result in the history
// and announces it.
func (h *DecisionsHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}

	ranking, err := d.RankedAlternatives()
	if err != nil {
		if errors.Is(err, apperr.ErrIncompleteData) {
			rankingsTotal.WithLabelValues("incomplete").Inc()
		} else {
			rankingsTotal.WithLabelValues("error").Inc()
		}
		writeError(w, err)
		return
	}
	outcome := "ok"
	if ranking.Degraded {
		outcome = "degraded"
	}
	rankingsTotal.WithLabelValues(outcome).Inc()

	frontier := make([]string, len(ranking.Frontier))
	for i, f := range ranking.Frontier {
		frontier[i] = f.Name
	}
	history := &store.RankingRecord{
		DecisionID:      rec.ID,
		DecisionVersion: rec.Version,
		Ranking:         ranking.Alternatives,
		Frontier:        frontier,
		Degraded:        ranking.Degraded,
		RequestedBy:     r.Header.Get(ClientHeader),
	}
	if err := h.store.CreateRanking(r.Context(), history); err != nil {
		h.logger.Warn("failed to record ranking", "decision_id", rec.ID, "error", err)
	}

	scores := make(map[string]float64, len(ranking.Alternatives))
	for _, a := range ranking.Alternatives {
		scores[a.Name] = a.Score
	}
	h.publish(rec.ID.String(), hermes.EventRanked, hermes.RankedEvent{
		DecisionID: rec.ID.String(),
		Version:    rec.Version,
		Best:       ranking.Alternatives[0].Name,
		Scores:     scores,
		Degraded:   ranking.Degraded,
		Timestamp:  time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, rankingView{DecisionID: rec.ID, Version: rec.Version, Ranking: ranking})
}

// Rankings lists previously computed rankings, newest first.
func (h *DecisionsHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.load(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.store.ListRankings(r.Context(), rec.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []*store.RankingRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *DecisionsHandler) Report(w http.ResponseWriter, r *http.Request) {
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Version int `json:"version"`
		*decision.Report
	}{rec.Version, d.Report()})
}
