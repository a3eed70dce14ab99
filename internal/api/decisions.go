package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Lehoufi/AHP/internal/decision"
	"github.com/Lehoufi/AHP/internal/hermes"
	"github.com/Lehoufi/AHP/internal/hierarchy"
	"github.com/Lehoufi/AHP/internal/store"
)

type DecisionsHandler struct {
	store    store.Store
	hermes   hermes.Client
	settings decision.Settings
	logger   *slog.Logger
}

func NewDecisionsHandler(s store.Store, h hermes.Client, settings decision.Settings, logger *slog.Logger) *DecisionsHandler {
	return &DecisionsHandler{store: s, hermes: h, settings: settings, logger: logger}
}

type decisionView struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Version      int                  `json:"version"`
	Frozen       bool                 `json:"frozen"`
	CreatedBy    string               `json:"created_by,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Tree         *hierarchy.NodeSpec  `json:"tree,omitempty"`
	Groups       []decision.GroupInfo `json:"groups,omitempty"`
	Alternatives []string             `json:"alternatives,omitempty"`
}

func summaryOf(rec *store.DecisionRecord) decisionView {
	return decisionView{
		ID:        rec.ID,
		Title:     rec.Title,
		Version:   rec.Version,
		Frozen:    rec.Frozen,
		CreatedBy: rec.CreatedBy,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func viewOf(rec *store.DecisionRecord, d *decision.Decision) decisionView {
	v := summaryOf(rec)
	tree := rec.Snapshot.Tree
	v.Tree = &tree
	v.Groups = d.Groups()
	v.Alternatives = d.Alternatives()
	return v
}

type nodeView struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Level int            `json:"level"`
	Role  hierarchy.Role `json:"role"`
}

func (h *DecisionsHandler) publish(decisionID string, kind hermes.EventKind, data interface{}) {
	if err := hermes.PublishDecision(h.hermes, decisionID, kind, data); err != nil {
		h.logger.Warn("publish failed", "decision_id", decisionID, "event", kind, "error", err)
	}
}

// load fetches the decision named in the URL and checks If-Match. It writes
// the error response itself and reports whether the caller may proceed.
func (h *DecisionsHandler) load(w http.ResponseWriter, r *http.Request) (*store.DecisionRecord, *decision.Decision, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid decision id"})
		return nil, nil, false
	}
	rec, err := h.store.GetDecision(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "decision not found"})
		return nil, nil, false
	}

	want, err := ifMatch(r)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	if want != 0 && want != rec.Version {
		writeError(w, fmt.Errorf("%w: have version %d, stored %d", store.ErrConflict, want, rec.Version))
		return nil, nil, false
	}

	d, err := rec.Decision(h.settings)
	if err != nil {
		h.logger.Error("stored decision does not restore", "decision_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "stored decision is corrupt"})
		return nil, nil, false
	}
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Version)))
	return rec, d, true
}

// save persists d under the record's version.
func (h *DecisionsHandler) save(w http.ResponseWriter, r *http.Request, rec *store.DecisionRecord, d *decision.Decision) bool {
	rec.Apply(d)
	if err := h.store.UpdateDecision(r.Context(), rec); err != nil {
		writeError(w, err)
		return false
	}
	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(rec.Version)))
	return true
}

type CreateDecisionRequest struct {
	Title string `json:"title"`
	Goal  string `json:"goal"`
}

func (h *DecisionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDecisionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	d := decision.New(req.Title, req.Goal, h.settings)
	if d.Title == "" {
		d.Title = d.Root().Name
	}
	client := r.Header.Get(ClientHeader)
	rec := store.NewDecisionRecord(d, client)
	if err := h.store.CreateDecision(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}

	decisionsTotal.WithLabelValues("created").Inc()
	h.publish(rec.ID.String(), hermes.EventCreated, hermes.DecisionEvent{
		DecisionID: rec.ID.String(),
		Title:      rec.Title,
		Version:    rec.Version,
		ClientID:   client,
		Timestamp:  time.Now().UTC(),
	})
	writeJSON(w, http.StatusCreated, viewOf(rec, d))
}

func (h *DecisionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.DecisionFilter{CreatedBy: q.Get("created_by")}
	if v := q.Get("frozen"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid frozen filter"})
			return
		}
		filter.Frozen = &b
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	records, err := h.store.ListDecisions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]decisionView, 0, len(records))
	for _, rec := range records {
		out = append(out, summaryOf(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DecisionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec, d))
}

func (h *DecisionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid decision id"})
		return
	}
	if err := h.store.DeleteDecision(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	decisionsTotal.WithLabelValues("deleted").Inc()
	h.publish(id.String(), hermes.EventDeleted, hermes.DecisionEvent{
		DecisionID: id.String(),
		ClientID:   r.Header.Get(ClientHeader),
		Timestamp:  time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id.String()})
}

type AddChildrenRequest struct {
	Names []string `json:"names"`
}

func (h *DecisionsHandler) AddChildren(w http.ResponseWriter, r *http.Request) {
	nodeID, err := uuid.Parse(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid node id"})
		return
	}
	var req AddChildrenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}

	created, err := d.AddChildren(nodeID, req.Names)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.save(w, r, rec, d) {
		return
	}

	nodes := make([]nodeView, len(created))
	names := make([]string, len(created))
	for i, n := range created {
		nodes[i] = nodeView{ID: n.ID, Name: n.Name, Level: n.Level, Role: n.Role}
		names[i] = n.Name
	}
	h.publish(rec.ID.String(), hermes.EventStructure, hermes.StructureEvent{
		DecisionID: rec.ID.String(),
		Version:    rec.Version,
		Action:     "add",
		NodeID:     nodeID.String(),
		Names:      names,
	})
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"version": rec.Version,
		"nodes":   nodes,
		"groups":  d.Groups(),
	})
}

func (h *DecisionsHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := uuid.Parse(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid node id"})
		return
	}
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}

	removed, err := d.RemoveNode(nodeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.save(w, r, rec, d) {
		return
	}

	h.publish(rec.ID.String(), hermes.EventStructure, hermes.StructureEvent{
		DecisionID: rec.ID.String(),
		Version:    rec.Version,
		Action:     "remove",
		NodeID:     nodeID.String(),
		Removed:    len(removed),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": rec.Version,
		"removed": removed,
		"groups":  d.Groups(),
	})
}

type FinalizeRequest struct {
	Alternatives []string `json:"alternatives"`
}

func (h *DecisionsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, d, ok := h.load(w, r)
	if !ok {
		return
	}

	created, err := d.FinalizeLeaves(req.Alternatives)
	if err != nil {
		writeError(w, err)
		return
	}
	if !h.save(w, r, rec, d) {
		return
	}

	h.publish(rec.ID.String(), hermes.EventFinalized, hermes.DecisionEvent{
		DecisionID: rec.ID.String(),
		Title:      rec.Title,
		Version:    rec.Version,
		ClientID:   r.Header.Get(ClientHeader),
		Timestamp:  time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":      rec.Version,
		"created":      created,
		"alternatives": d.Alternatives(),
		"groups":       d.Groups(),
	})
}
