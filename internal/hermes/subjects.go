package hermes

const (
	StreamName     = "AHP_EVENTS"
	StreamSubjects = "ahp.decision.>"
	StreamMaxAge   = "720h" // 30 days

	subjectPrefix = "ahp.decision."
)

// EventKind is the last token of a decision subject.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventStructure EventKind = "structure"
	EventFinalized EventKind = "finalized"
	EventJudged    EventKind = "judged"
	// EventInconsistent is published alongside judged when a group's
	// consistency ratio exceeds the threshold.
	EventInconsistent EventKind = "inconsistent"
	EventRanked       EventKind = "ranked"
	EventDeleted      EventKind = "deleted"
)

// DecisionSubject returns ahp.decision.<id>.<kind>.
func DecisionSubject(id string, kind EventKind) string {
	return subjectPrefix + id + "." + string(kind)
}
