/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported on /metrics.
var Registry = prometheus.NewRegistry()

var (
	ConsentDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tcs",
		Name:      "consent_decisions_total",
		Help:      "Consent decisions recorded in the durable store, by decision.",
	}, []string{"decision"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tcs",
		Name:      "rate_limited_requests_total",
		Help:      "Consent write requests rejected by the rate limiter, by action.",
	}, []string{"action"})

	GateEvaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tcs",
		Name:      "script_gate_evaluations_total",
		Help:      "Page evaluations by the script gate, by whether the popup is shown.",
	}, []string{"show_popup"})

	SuppressedScripts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tcs",
		Name:      "suppressed_scripts_total",
		Help:      "Tracker loader tags withheld by the script gate, by tracker handle.",
	}, []string{"handle"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tcs",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

func init() {
	Registry.MustRegister(
		ConsentDecisions,
		RateLimited,
		GateEvaluations,
		SuppressedScripts,
		HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument records request latency for next.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		HTTPRequestDuration.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}
