package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the ingestion gateway.
type Metrics struct {
	// ReceivedCounts maps provider name to the number of events ingested
	ReceivedCounts map[string]int64 `json:"received_counts"`

	// InvalidSignatureCounts maps provider name to the number of events
	// that failed cryptographic verification (recorded, not dropped)
	InvalidSignatureCounts map[string]int64 `json:"invalid_signature_counts"`

	// Throughput represents events ingested per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents events ingested over different time windows.
type ThroughputMetrics struct {
	// LastMinute is events ingested in the last 1 minute
	LastMinute int64 `json:"last_minute"`

	// LastFiveMinutes is events ingested in the last 5 minutes
	LastFiveMinutes int64 `json:"last_five_minutes"`

	// LastFifteenMinutes is events ingested in the last 15 minutes
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the gateway.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetReceivedCounts returns ingested events per provider
	GetReceivedCounts(ctx context.Context) (map[string]int64, error)

	// GetInvalidSignatureCounts returns failed verifications per provider
	GetInvalidSignatureCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns events ingested over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)
}
