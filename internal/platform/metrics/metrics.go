package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered  prometheus.Counter
	QuestionsCreated prometheus.Counter
	AnswersCreated   prometheus.Counter
	CascadeDeletes   prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "askboard_users_registered_total",
			Help: "Total number of users registered",
		}),
		QuestionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "askboard_questions_created_total",
			Help: "Total number of questions created",
		}),
		AnswersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "askboard_answers_created_total",
			Help: "Total number of answers created",
		}),
		CascadeDeletes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "askboard_question_cascade_deletes_total",
			Help: "Total number of question deletions including their answers",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "askboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
