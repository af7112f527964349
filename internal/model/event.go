package model

import "time"

// BankingEvent is one activity log document as indexed into the daily
// logs-{dataset}-YYYY.MM.DD indices. Field layout mirrors the index
// template the seeder installs.
type BankingEvent struct {
	Timestamp   time.Time        `json:"@timestamp"`
	Message     string           `json:"message,omitempty"`
	Event       EventInfo        `json:"event"`
	App         AppInfo          `json:"app"`
	User        *UserInfo        `json:"user,omitempty"`
	Source      *SourceInfo      `json:"source,omitempty"`
	Device      *DeviceInfo      `json:"device,omitempty"`
	Geo         *GeoInfo         `json:"geo,omitempty"`
	Trace       *TraceInfo       `json:"trace,omitempty"`
	Transaction *TransactionInfo `json:"transaction,omitempty"`
}

type EventInfo struct {
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Dataset string `json:"dataset,omitempty"` // auth | mobile | payment, picks the target index
}

type AppInfo struct {
	Name    string `json:"name,omitempty"`
	Channel string `json:"channel"`
	Version string `json:"version,omitempty"`
}

type UserInfo struct {
	ID string `json:"id"`
}

type SourceInfo struct {
	IP string `json:"ip,omitempty"`
}

type DeviceInfo struct {
	Model string  `json:"model,omitempty"`
	OS    *OSInfo `json:"os,omitempty"`
}

type OSInfo struct {
	Name string `json:"name,omitempty"`
}

type GeoInfo struct {
	CityName string `json:"city_name,omitempty"`
}

type TraceInfo struct {
	ID string `json:"id,omitempty"`
}

type TransactionInfo struct {
	Amount   float64 `json:"amount,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// UsageEvent is one pipeline invocation recorded to the usage hypertable.
type UsageEvent struct {
	Time         time.Time         `json:"time"`
	QueryType    string            `json:"query_type"`
	Status       string            `json:"status"`
	IndexPattern string            `json:"index_pattern"`
	DurationMs   int64             `json:"duration_ms"`
	Tags         map[string]string `json:"tags"`
}
