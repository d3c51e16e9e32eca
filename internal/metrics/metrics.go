// Package metrics exposes prometheus counters for the service.
package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitmint_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitmint_expenses_created_total",
		Help: "Expenses created, partitioned by personal vs group.",
	}, []string{"kind"})

	SplitsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmint_splits_computed_total",
		Help: "Split records computed for group expenses.",
	})

	InvitationsDecided = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splitmint_invitations_decided_total",
		Help: "Invitation decisions by resulting status.",
	}, []string{"status"})

	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitmint_audit_write_failures_total",
		Help: "Audit events that failed to persist.",
	})
)

// Handler serves the prometheus scrape endpoint through Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// RequestCounter counts every handled request by route pattern.
func RequestCounter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		route := c.Route().Path
		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	}
}
