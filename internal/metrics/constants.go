package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Registry metric names
const (
	MetricNameMonstersMinted      = "monsters_minted_total"
	MetricNameMonstersRenamed     = "monsters_renamed_total"
	MetricNameMonstersSlain       = "monsters_slain_total"
	MetricNameMonstersTransferred = "monsters_transferred_total"
	MetricNameOperationRejections = "registry_operation_rejections_total"
	MetricNameCustodyEther        = "registry_custody_ether"
	MetricNameWithdrawnEther      = "registry_withdrawn_ether_total"
	MetricNameTotalSupply         = "registry_total_supply"
)

// Render metric names
const (
	MetricNameTokenURICacheHits   = "token_uri_cache_hits_total"
	MetricNameTokenURICacheMisses = "token_uri_cache_misses_total"
)

// Stream metric names
const (
	MetricNameSSEClients = "sse_clients"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Registry metric help text
const (
	HelpTextMonstersMinted      = "Total number of monsters minted"
	HelpTextMonstersRenamed     = "Total number of monster renames"
	HelpTextMonstersSlain       = "Total number of monsters slain"
	HelpTextMonstersTransferred = "Total number of monster transfers"
	HelpTextOperationRejections = "Registry operations rejected by a precondition"
	HelpTextCustodyEther        = "Withdrawable custody balance in ether"
	HelpTextWithdrawnEther      = "Total ether withdrawn by the administrator"
	HelpTextTotalSupply         = "Number of minted monsters"
)

// Render metric help text
const (
	HelpTextTokenURICacheHits   = "Token metadata served from cache"
	HelpTextTokenURICacheMisses = "Token metadata rendered on demand"
)

// Stream metric help text
const (
	HelpTextSSEClients = "Connected event stream clients"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelMint      = "mint_method"
	LabelWeapon    = "weapon"
	LabelOperation = "operation"
	LabelKind      = "kind"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUndecodable = "Event payload could not be decoded"
	LogMsgMetricsRecorded         = "Metrics recorded for event"
)
