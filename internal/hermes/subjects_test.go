package hermes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectsFallUnderStream(t *testing.T) {
	id := "7f1c0d8e-1111-2222-3333-444455556666"
	kinds := []EventKind{
		EventCreated, EventStructure, EventFinalized, EventJudged,
		EventInconsistent, EventRanked, EventDeleted,
	}
	prefix := strings.TrimSuffix(StreamSubjects, ">")
	for _, kind := range kinds {
		subject := DecisionSubject(id, kind)
		assert.True(t, strings.HasPrefix(subject, prefix), subject)
		assert.Equal(t, "ahp.decision."+id+"."+string(kind), subject)
	}
}

type recordingClient struct {
	subjects []string
	payloads []interface{}
}

func (r *recordingClient) Publish(subject string, data interface{}) error {
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func (r *recordingClient) Close() {}

func TestPublishDecision(t *testing.T) {
	rc := &recordingClient{}
	ev := JudgedEvent{DecisionID: "d1", Level: 1, Acceptable: true}

	require.NoError(t, PublishDecision(rc, "d1", EventJudged, ev))
	assert.Equal(t, []string{"ahp.decision.d1.judged"}, rc.subjects)
	assert.Equal(t, ev, rc.payloads[0])

	assert.Error(t, PublishDecision(rc, "", EventRanked, RankedEvent{}))
	assert.Len(t, rc.subjects, 1)
}

func TestPublishDecisionWithoutClient(t *testing.T) {
	assert.NoError(t, PublishDecision(nil, "d1", EventCreated, DecisionEvent{}))
}
