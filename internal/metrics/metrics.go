package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "besttweets_http_responses_total",
		Help: "HTTP responses by route and outcome code",
	}, []string{"route", "code"})
	UpstreamCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "besttweets_upstream_calls_total",
		Help: "Calls to the Twitter API by operation and result",
	}, []string{"op", "result"})
	UpstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "besttweets_upstream_duration_seconds",
		Help:    "Twitter API call duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	Authorizations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "besttweets_authorizations_total",
		Help: "OAuth flow outcomes by result",
	}, []string{"result"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "besttweets_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "besttweets_command_errors_total",
		Help: "CLI command failures",
	}, []string{"cmd"})
)

func init() {
	prometheus.MustRegister(HTTPResponses, UpstreamCalls, UpstreamDuration, Authorizations, CommandRuns, CommandErrors)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// ObserveUpstream records one API call and its duration since start.
func ObserveUpstream(op, result string, start time.Time) {
	UpstreamCalls.WithLabelValues(op, result).Inc()
	UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func IncResponse(route, code string)  { HTTPResponses.WithLabelValues(route, code).Inc() }
func IncAuthorization(result string)  { Authorizations.WithLabelValues(result).Inc() }
func IncCommandRun(cmd string)        { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string)      { CommandErrors.WithLabelValues(cmd).Inc() }
