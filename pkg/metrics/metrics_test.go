package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthEventsTotal.WithLabelValues("login", OutcomeFailure))
	ObserveAuth("login", errors.New("bad"))
	after := testutil.ToFloat64(AuthEventsTotal.WithLabelValues("login", OutcomeFailure))
	assert.Equal(t, before+1, after)
}

func TestObserveNote(t *testing.T) {
	before := testutil.ToFloat64(NoteOperationsTotal.WithLabelValues("create", OutcomeSuccess))
	ObserveNote("create", nil)
	after := testutil.ToFloat64(NoteOperationsTotal.WithLabelValues("create", OutcomeSuccess))
	assert.Equal(t, before+1, after)
}
