package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/playperu/jurybot/internal/festival"
)

// Metrics holds the Prometheus collectors of the bot.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   prometheus.Counter
	errorsTotal     prometheus.Counter
	authAttempts    *prometheus.CounterVec
	votes           *prometheus.CounterVec
	persistFailures prometheus.Counter
	deliveryErrors  prometheus.Counter
	juryMembers     *prometheus.GaugeVec
	artists         prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_http_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_http_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jurybot_auth_attempts_total",
			Help: "Login attempts by matched role and outcome",
		}, []string{"role", "result"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jurybot_votes_total",
			Help: "Vote submissions by jury and outcome",
		}, []string{"jury", "result"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_persist_failures_total",
			Help: "Document saves that failed",
		}),
		deliveryErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jurybot_delivery_errors_total",
			Help: "Chat messages that could not be delivered",
		}),
		juryMembers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "jurybot_jury_members",
			Help: "Current number of judges per jury",
		}, []string{"jury"}),
		artists: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jurybot_artists",
			Help: "Artists in the roster",
		}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.authAttempts,
		m.votes,
		m.persistFailures,
		m.deliveryErrors,
		m.juryMembers,
		m.artists,
	)
	return m
}

func (m *Metrics) IncRequests() { m.requestsTotal.Inc() }

func (m *Metrics) IncErrors() { m.errorsTotal.Inc() }

// PersistFailed counts a failed document save.
func (m *Metrics) PersistFailed(error) { m.persistFailures.Inc() }

// DeliveryFailed counts a message the transport could not deliver.
func (m *Metrics) DeliveryFailed() { m.deliveryErrors.Inc() }

func (m *Metrics) AuthAttempt(role festival.Role, err error) {
	if role == "" {
		role = "none"
	}
	m.authAttempts.WithLabelValues(string(role), outcome(err)).Inc()
}

func (m *Metrics) VoteRecorded(jury festival.JuryType) {
	m.votes.WithLabelValues(juryLabel(jury), "recorded").Inc()
}

func (m *Metrics) VoteRejected(jury festival.JuryType, err error) {
	m.votes.WithLabelValues(juryLabel(jury), outcome(err)).Inc()
}

// SetJuries updates the jury size and roster gauges.
func (m *Metrics) SetJuries(popular, technical, artists int) {
	m.juryMembers.WithLabelValues(string(festival.JuryPopular)).Set(float64(popular))
	m.juryMembers.WithLabelValues(string(festival.JuryTechnical)).Set(float64(technical))
	m.artists.Set(float64(artists))
}

// Handler serves the registry. updateGauges runs before each scrape.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

func juryLabel(j festival.JuryType) string {
	if j == "" {
		return "none"
	}
	return string(j)
}

var outcomes = []struct {
	err   error
	label string
}{
	{festival.ErrInvalidCredential, "invalid_credential"},
	{festival.ErrCapacityExceeded, "capacity_exceeded"},
	{festival.ErrAlreadyAuthenticated, "already_authenticated"},
	{festival.ErrNotAuthorized, "not_authorized"},
	{festival.ErrNoActiveArtist, "no_active_artist"},
	{festival.ErrInvalidVoteFormat, "invalid_format"},
	{festival.ErrOutOfRange, "out_of_range"},
	{festival.ErrDuplicateVote, "duplicate"},
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}
