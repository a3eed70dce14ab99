package hermes

import "time"

// DecisionEvent reports a lifecycle change of a decision.
type DecisionEvent struct {
	DecisionID string    `json:"decision_id"`
	Title      string    `json:"title,omitempty"`
	Version    int       `json:"version"`
	ClientID   string    `json:"client_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// StructureEvent reports an edit of the hierarchy.
type StructureEvent struct {
	DecisionID string   `json:"decision_id"`
	Version    int      `json:"version"`
	Action     string   `json:"action"` // "add" or "remove"
	NodeID     string   `json:"node_id"`
	Names      []string `json:"names,omitempty"`
	Removed    int      `json:"removed,omitempty"`
}

// JudgedEvent reports new judgments on one sibling group.
type JudgedEvent struct {
	DecisionID string  `json:"decision_id"`
	Version    int     `json:"version"`
	Level      int     `json:"level"`
	ParentID   string  `json:"parent_id"`
	Parent     string  `json:"parent"`
	Ratio      float64 `json:"consistency_ratio"`
	Acceptable bool    `json:"acceptable"`
}

// RankedEvent carries a freshly computed ranking.
type RankedEvent struct {
	DecisionID string             `json:"decision_id"`
	Version    int                `json:"version"`
	Best       string             `json:"best"`
	Scores     map[string]float64 `json:"scores"`
	Degraded   bool               `json:"degraded,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}
