package contact

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mail kinds used as metric labels.
const (
	kindContact = "contact"
	kindTest    = "test"
)

// Metrics counts dispatch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Dispatches *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics registers the dispatch collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Dispatches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactmail",
				Subsystem: "mail",
				Name:      "dispatches_total",
				Help:      "Mail dispatch attempts by outcome",
			},
			[]string{"mail", "outcome", "code"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contactmail",
				Subsystem: "mail",
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent verifying and sending mail",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mail"},
		),
	}
}

// ObserveRejected counts a submission that failed validation.
func (m *Metrics) ObserveRejected(err error) {
	m.observe(kindContact, err, 0)
}

func (m *Metrics) observe(mail string, err error, took time.Duration) {
	if m == nil {
		return
	}

	outcome, code := "sent", ""
	if err != nil {
		outcome, code = KindUnknown.String(), CodeUnknown
		if ce, ok := AsError(err); ok {
			outcome, code = ce.Kind.String(), ce.Code
		}
	}
	m.Dispatches.WithLabelValues(mail, outcome, code).Inc()
	if took > 0 {
		m.Duration.WithLabelValues(mail).Observe(took.Seconds())
	}
}
