package observability

import (
	"testing"

	"github.com/danmuck/azadio/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(protocolItems.WithLabelValues("send"))
	RecordMessage("send", "answer", 4, true)
	RecordMessage("send", "answer", 0, false)
	assert.Equal(t, before+4, testutil.ToFloat64(protocolItems.WithLabelValues("send")))

	verdicts := testutil.ToFloat64(judgeVerdicts.WithLabelValues("accepted"))
	RecordVerdict("accepted")
	assert.Equal(t, verdicts+1, testutil.ToFloat64(judgeVerdicts.WithLabelValues("accepted")))

	RecordValidationFailure("shape")
	assert.GreaterOrEqual(t, testutil.ToFloat64(validationFailures.WithLabelValues("shape")), 1.0)
}
