package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcomes used as label values on FoodMetrics counters.
const (
	OutcomeCreated   = "created"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeInserted  = "inserted"
	OutcomeExisted   = "existed"
	OutcomePublished = "published"
)

// FoodMetrics counts catalogue writes.
type FoodMetrics struct {
	submissions *prometheus.CounterVec
	seeded      *prometheus.CounterVec
	moderation  *prometheus.CounterVec
}

func NewFoodMetrics(reg prometheus.Registerer) *FoodMetrics {
	if reg == nil {
		return &FoodMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_submissions_total",
		Help: "Food item submissions by outcome.",
	}, []string{"outcome"})
	seeded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_seed_items_total",
		Help: "Sample items processed by admin seeding, by outcome.",
	}, []string{"outcome"})
	moderation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "food_moderation_events_total",
		Help: "Moderation events by publish outcome.",
	}, []string{"outcome"})
	reg.MustRegister(submissions, seeded, moderation)
	return &FoodMetrics{submissions: submissions, seeded: seeded, moderation: moderation}
}

func (m *FoodMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *FoodMetrics) AddSeeded(outcome string, n int) {
	if m == nil || m.seeded == nil || n <= 0 {
		return
	}
	m.seeded.WithLabelValues(normalizeLabel(outcome)).Add(float64(n))
}

func (m *FoodMetrics) IncModeration(outcome string) {
	if m == nil || m.moderation == nil {
		return
	}
	m.moderation.WithLabelValues(normalizeLabel(outcome)).Inc()
}
