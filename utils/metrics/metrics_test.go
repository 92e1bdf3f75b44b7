package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPollAttempt(t *testing.T) {
	before := testutil.ToFloat64(CorrelationPollAttempts.WithLabelValues("pending"))
	RecordPollAttempt("pending")
	assert.Equal(t, before+1, testutil.ToFloat64(CorrelationPollAttempts.WithLabelValues("pending")))

	beforeReady := testutil.ToFloat64(CorrelationPollAttempts.WithLabelValues("ready"))
	RecordPollAttempt("")
	assert.Equal(t, beforeReady+1, testutil.ToFloat64(CorrelationPollAttempts.WithLabelValues("ready")))
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("report", "hit"))
	RecordCacheLookup("report", true)
	assert.Equal(t, before+1, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("report", "hit")))
}

func TestRecordValidationWarnings(t *testing.T) {
	before := testutil.ToFloat64(ValidationWarningsTotal.WithLabelValues("tids"))
	RecordValidationWarnings([]string{"tids", "pca"})
	assert.Equal(t, before+1, testutil.ToFloat64(ValidationWarningsTotal.WithLabelValues("tids")))
}
