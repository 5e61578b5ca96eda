package analytics

import "time"

type EventType string

const (
	EventFilter EventType = "filter"
	EventCount  EventType = "count"
)

// FilterEvent records one filter or count request. The text itself is not
// published, only its size.
type FilterEvent struct {
	Type            EventType `json:"type"`
	Language        string    `json:"language"`
	KeepPunctuation bool      `json:"keep_punctuation"`
	TextBytes       int       `json:"text_bytes"`
	InputTokens     int       `json:"input_tokens"`
	Retained        int       `json:"retained"`
	Unique          int       `json:"unique,omitempty"`
	LatencyMs       int64     `json:"latency_ms"`
	CacheHit        bool      `json:"cache_hit"`
	Error           string    `json:"error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	RequestID       string    `json:"request_id,omitempty"`
}
