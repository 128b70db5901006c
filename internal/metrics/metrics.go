package metrics

import (
	"strconv"
	"time"

	"github.com/eaglebank/client-service/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Account operation labels.
const (
	OpCreateAccount = "create_account"
	OpDeposit       = "deposit"
	OpWithdraw      = "withdraw"
	OpDeleteAccount = "delete_account"
	OpUpdateClient  = "update_client"
)

const OutcomeSuccess = "success"

// Metrics holds the Prometheus collectors for the client service.
type Metrics struct {
	AccountOperations   *prometheus.CounterVec
	ClientsCreated      prometheus.Counter
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors with reg. Tests pass a fresh
// prometheus.NewRegistry(); main passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "client_service_account_operations_total",
			Help: "Account operations by operation and outcome (success or the failure kind)",
		}, []string{"operation", "outcome"}),
		ClientsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "client_service_clients_created_total",
			Help: "Total number of clients created",
		}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "client_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

// ObserveAccountOperation counts one call of op. A nil err is a success;
// otherwise the outcome is the domain error kind ("unknown" for infra errors).
func (m *Metrics) ObserveAccountOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	m.AccountOperations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) IncrementClientsCreated() {
	if m == nil {
		return
	}
	m.ClientsCreated.Inc()
}

// Middleware records request latency labelled by the matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
