package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/hermes"
	"github.com/Lehoufi/AHP/internal/judgment"
	"github.com/Lehoufi/AHP/internal/store"
)

func groupKey(r *http.Request) (decision.GroupKey, bool) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 {
		return decision.GroupKey{}, false
	}
	parent, err := uuid.Parse(chi.URLParam(r, "parentID"))
	if err != nil {
		return decision.GroupKey{}, false
	}
	return decision.GroupKey{Level: level, Parent: parent}, true
}

func (h *DecisionsHandler) Groups(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, d.Groups())
}

func (h *DecisionsHandler) Group(w http.ResponseWriter, r *http.Request) {
	key, ok := groupKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid group key"})
		return
	}
	_, d, ok := h.load(w, r)
	if !ok {
		return
	}
	gr, err := d.GroupReport(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gr)
}

type SubmitJudgmentsRequest struct {
	Judgments []judgment.Judgment `json:"judgments"`
}

// SubmitJudgments replaces the whole matrix of a group.
func (h *DecisionsHandler) SubmitJudgments(w http.ResponseWriter, r *http.Request) {
	key, ok := groupKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid group key"})
		return
	}
	var req SubmitJudgmentsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := d.SubmitJudgments(key, req.Judgments); err != nil {
		writeError(w, err)
		return
	}
	h.afterJudgment(w, r, rec, d, key, "submit")
}

// SetJudgment changes one cell of a group's matrix.
func (h *DecisionsHandler) SetJudgment(w http.ResponseWriter, r *http.Request) {
	key, ok := groupKey(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid group key"})
		return
	}
	var req judgment.Judgment
	if !decodeBody(w, r, &req) {
		return
	}
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := d.SetJudgment(key, req.Row, req.Col, req.Value); err != nil {
		writeError(w, err)
		return
	}
	h.afterJudgment(w, r, rec, d, key, "set")
}

func (h *DecisionsHandler) afterJudgment(w http.ResponseWriter, r *http.Request, rec *store.DecisionRecord, d *decision.Decision, key decision.GroupKey, mode string) {
	if !h.save(w, r, rec, d) {
		return
	}
	judgmentsTotal.WithLabelValues(mode).Inc()

	gr, err := d.GroupReport(key)
	if err != nil {
		writeError(w, err)
		return
	}

	ev := hermes.JudgedEvent{
		DecisionID: rec.ID.String(),
		Version:    rec.Version,
		Level:      key.Level,
		ParentID:   key.Parent.String(),
		Parent:     gr.Parent,
		Acceptable: true,
	}
	if gr.Consistency != nil {
		ev.Ratio = gr.Consistency.Ratio
		ev.Acceptable = gr.Consistency.Acceptable
	}
	h.publish(ev.DecisionID, hermes.EventJudged, ev)
	if !ev.Acceptable {
		inconsistentGroupsTotal.Inc()
		h.publish(ev.DecisionID, hermes.EventInconsistent, ev)
		h.logger.Info("inconsistent judgments",
			"decision_id", ev.DecisionID,
			"group", key.String(),
			"consistency_ratio", ev.Ratio,
		)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": rec.Version,
		"group":   gr,
	})
}
