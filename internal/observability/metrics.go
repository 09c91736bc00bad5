package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	protocolMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "azad",
			Subsystem: "protocol",
			Name:      "messages_total",
			Help:      "Protocol messages by direction and message type.",
		},
		[]string{"direction", "type", "success"},
	)
	protocolItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "azad",
			Subsystem: "protocol",
			Name:      "items_total",
			Help:      "Frames, literals and units moved through the protocol.",
		},
		[]string{"direction"},
	)
	judgeVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "azad",
			Subsystem: "judge",
			Name:      "verdicts_total",
			Help:      "Answer comparison outcomes.",
		},
		[]string{"verdict"},
	)
	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "azad",
			Subsystem: "iodata",
			Name:      "validation_failures_total",
			Help:      "Rejected parameter or return values by failure reason.",
		},
		[]string{"reason"},
	)
)

// Registry is where the azad collectors live. It defaults to the
// prometheus default registerer.
var Registry prometheus.Registerer = prometheus.DefaultRegisterer

func RegisterMetrics() {
	registerOnce.Do(func() {
		Registry.MustRegister(protocolMessages, protocolItems, judgeVerdicts, validationFailures)
	})
}

func RecordMessage(direction, msgType string, items int, success bool) {
	RegisterMetrics()
	successLabel := "false"
	if success {
		successLabel = "true"
	}
	protocolMessages.WithLabelValues(direction, msgType, successLabel).Inc()
	if items > 0 {
		protocolItems.WithLabelValues(direction).Add(float64(items))
	}
}

func RecordVerdict(verdict string) {
	RegisterMetrics()
	judgeVerdicts.WithLabelValues(verdict).Inc()
}

func RecordValidationFailure(reason string) {
	RegisterMetrics()
	validationFailures.WithLabelValues(reason).Inc()
}
