// Package metrics provides Prometheus metrics for the classplay game service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Session lifecycle
	sessionsCreated *prometheus.CounterVec
	sessionsClosed  *prometheus.CounterVec
	sessionsActive  *prometheus.GaugeVec

	// Actions
	actionsTotal     *prometheus.CounterVec
	actionsDuplicate prometheus.Counter
	actionsRejected  *prometheus.CounterVec

	// Game outcomes
	spinsTotal       *prometheus.CounterVec
	guessesTotal     *prometheus.CounterVec
	sentenceChecks   *prometheus.CounterVec
	flashcardReveals *prometheus.CounterVec
	moodVotes        *prometheus.CounterVec
	moodVotesActive  prometheus.Gauge
	timersPending    prometheus.Gauge

	// Celebrations
	celebrationsDelivered *prometheus.CounterVec
	celebrationsDropped   prometheus.Counter

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueued    prometheus.Counter
	queueDequeued    prometheus.Counter
	queueLatency     prometheus.Histogram

	// Workers
	workerCount   prometheus.Gauge
	workerErrors  prometheus.Counter
	workerLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Subscribers
	streamSubscribers prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "classplay",
		subsystem:        "games",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	m.sessionsCreated = m.counterVec("sessions_created_total", "Screen sessions created by kind", "kind")
	m.sessionsClosed = m.counterVec("sessions_closed_total", "Screen sessions closed by kind and reason", "kind", "reason")
	m.sessionsActive = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sessions_active",
		Help:        "Screen sessions currently hosted by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.actionsTotal = m.counterVec("actions_total", "Actions applied to sessions by kind and type", "kind", "type")
	m.actionsDuplicate = m.counter("actions_duplicate_total", "Actions skipped because their id was already applied")
	m.actionsRejected = m.counterVec("actions_rejected_total", "Actions rejected by kind and reason", "kind", "reason")

	m.spinsTotal = m.counterVec("spins_total", "Wheel spins by landed sector", "sector")
	m.guessesTotal = m.counterVec("guesses_total", "Spinner guesses by result", "result")
	m.sentenceChecks = m.counterVec("sentence_checks_total", "Sentence checks by result", "result")
	m.flashcardReveals = m.counterVec("flashcard_reveals_total", "Flashcard reveals by difficulty", "difficulty")
	m.moodVotes = m.counterVec("mood_votes_total", "Mood votes cast by mood", "mood")
	m.moodVotesActive = m.gauge("mood_votes_active", "Mood votes currently on display")
	m.timersPending = m.gauge("timers_pending", "Delayed state transitions waiting to fire")

	m.celebrationsDelivered = m.counterVec("celebrations_delivered_total", "Celebration bursts delivered by event", "event")
	m.celebrationsDropped = m.counter("celebrations_dropped_total", "Celebration bursts dropped on a full queue")

	m.queueSize = m.gauge("queue_size", "Current number of queued celebration bursts")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued celebration bursts")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Bursts enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Bursts dequeued")
	m.queueLatency = m.histogram("queue_latency_milliseconds", "Time a burst spent queued", m.histogramBuckets)

	m.workerCount = m.gauge("worker_count", "Celebration workers running")
	m.workerErrors = m.counter("worker_errors_total", "Sink errors raised while delivering bursts")
	m.workerLatency = m.histogram("worker_latency_milliseconds", "Time spent delivering one burst", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "HTTP errors by type and severity", "error_type", "severity")

	m.streamSubscribers = m.gauge("stream_subscribers", "Open event-stream subscriptions")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Session Metrics Functions.

// RecordSessionCreated counts a new session and bumps the active gauge.
func RecordSessionCreated(kind string) {
	globalManager.sessionsCreated.WithLabelValues(kind).Inc()
	globalManager.sessionsActive.WithLabelValues(kind).Inc()
}

// RecordSessionClosed counts a closed session and lowers the active gauge.
func RecordSessionClosed(kind, reason string) {
	globalManager.sessionsClosed.WithLabelValues(kind, reason).Inc()
	globalManager.sessionsActive.WithLabelValues(kind).Dec()
}

// Action Metrics Functions.

// RecordAction counts an applied action.
func RecordAction(kind, actionType string) {
	globalManager.actionsTotal.WithLabelValues(kind, actionType).Inc()
}

// RecordActionDuplicate counts an action skipped by idempotency.
func RecordActionDuplicate() {
	globalManager.actionsDuplicate.Inc()
}

// RecordActionRejected counts an action refused before reaching a state machine.
func RecordActionRejected(kind, reason string) {
	globalManager.actionsRejected.WithLabelValues(kind, reason).Inc()
}

// Game Metrics Functions.

// RecordSpin counts a spin that landed on sector.
func RecordSpin(sector string) {
	globalManager.spinsTotal.WithLabelValues(sector).Inc()
}

// RecordGuess counts a spinner guess; result is "correct" or "wrong".
func RecordGuess(result string) {
	globalManager.guessesTotal.WithLabelValues(result).Inc()
}

// RecordSentenceCheck counts a sentence check; result is "correct" or "wrong".
func RecordSentenceCheck(result string) {
	globalManager.sentenceChecks.WithLabelValues(result).Inc()
}

// RecordFlashcardReveal counts a flashcard reveal.
func RecordFlashcardReveal(difficulty string) {
	globalManager.flashcardReveals.WithLabelValues(difficulty).Inc()
}

// RecordMoodVote counts a mood vote.
func RecordMoodVote(mood string) {
	globalManager.moodVotes.WithLabelValues(mood).Inc()
}

// AddMoodVotesActive moves the displayed-votes gauge by delta.
func AddMoodVotesActive(delta int) {
	globalManager.moodVotesActive.Add(float64(delta))
}

// AddTimersPending moves the pending-timers gauge by delta.
func AddTimersPending(delta int) {
	globalManager.timersPending.Add(float64(delta))
}

// Celebration Metrics Functions.

// RecordCelebrationDelivered counts a burst handed to every sink.
func RecordCelebrationDelivered(event string) {
	globalManager.celebrationsDelivered.WithLabelValues(event).Inc()
}

// RecordCelebrationDropped counts a burst lost to a full queue.
func RecordCelebrationDropped() {
	globalManager.celebrationsDropped.Inc()
}

// Queue Metrics Functions.

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter and observes queue time.
func RecordQueueDequeue(waitMs float64) {
	globalManager.queueDequeued.Inc()
	globalManager.queueLatency.Observe(waitMs)
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordWorkerLatency records how long one delivery took.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// AddStreamSubscribers moves the subscriber gauge by delta.
func AddStreamSubscribers(delta int) {
	globalManager.streamSubscribers.Add(float64(delta))
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
