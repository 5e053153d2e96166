package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Registry Metrics
var (
	MonstersMinted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMonstersMinted,
			Help: HelpTextMonstersMinted,
		},
		[]string{LabelMint},
	)

	MonstersRenamed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMonstersRenamed,
			Help: HelpTextMonstersRenamed,
		},
	)

	MonstersSlain = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMonstersSlain,
			Help: HelpTextMonstersSlain,
		},
		[]string{LabelWeapon},
	)

	MonstersTransferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMonstersTransferred,
			Help: HelpTextMonstersTransferred,
		},
	)

	OperationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOperationRejections,
			Help: HelpTextOperationRejections,
		},
		[]string{LabelOperation, LabelKind},
	)

	CustodyEther = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameCustodyEther,
			Help: HelpTextCustodyEther,
		},
	)

	WithdrawnEther = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWithdrawnEther,
			Help: HelpTextWithdrawnEther,
		},
	)

	TotalSupply = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTotalSupply,
			Help: HelpTextTotalSupply,
		},
	)
)

// Render Metrics
var (
	TokenURICacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTokenURICacheHits,
			Help: HelpTextTokenURICacheHits,
		},
	)

	TokenURICacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTokenURICacheMisses,
			Help: HelpTextTokenURICacheMisses,
		},
	)
)

// Stream Metrics
var (
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSEClients,
			Help: HelpTextSSEClients,
		},
	)
)
