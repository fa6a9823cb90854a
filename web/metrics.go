package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	routeLabel  = "route"
	methodLabel = "method"
	statusLabel = "status"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tilepart_http_requests",
		Help: "The number of handled HTTP requests.",
	}, []string{
		routeLabel,
		methodLabel,
		statusLabel,
	})

	httpRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "tilepart_http_request_latency",
		Help: "The time to handle an HTTP request.",
	}, []string{
		routeLabel,
		methodLabel,
	})

	partitionsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tilepart_partitions",
		Help: "The number of partitions currently held in memory.",
	})

	tilesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilepart_tiles_created",
		Help: "The number of tiles created by all partitions.",
	})

	queryStatements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tilepart_query_statements",
		Help: "The number of executed query statements.",
	})
)

func instrumentRequest(route string, method string, status int, start time.Time) {
	httpRequests.With(prometheus.Labels{
		routeLabel:  route,
		methodLabel: method,
		statusLabel: strconv.Itoa(status),
	}).Inc()

	httpRequestLatency.With(prometheus.Labels{
		routeLabel:  route,
		methodLabel: method,
	}).Observe(time.Since(start).Seconds())
}

func instrumentPartitions(count int, createdTiles int) {
	partitionsStored.Set(float64(count))
	tilesCreated.Add(float64(createdTiles))
}

func instrumentQuery(statements int) {
	queryStatements.Add(float64(statements))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware records the status and latency of every request by its route template, e.g.
// "/partitions/{id}".
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := request.URL.Path
		if currentRoute := mux.CurrentRoute(request); currentRoute != nil {
			if template, err := currentRoute.GetPathTemplate(); err == nil {
				route = template
			}
		}
		instrumentRequest(route, request.Method, recorder.status, start)
	})
}
