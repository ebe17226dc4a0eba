package model

import (
	"encoding/json"
	"time"
)

// RunKind labels what operation a persisted run recorded.
type RunKind string

const (
	RunKindResearch    RunKind = "research"
	RunKindReplacement RunKind = "replacement"
	RunKindComplete    RunKind = "complete"
)

// Run is one recorded research or replacement invocation. Request and Result
// are the serialized request/response value objects, stored verbatim so runs
// can be replayed or audited later.
type Run struct {
	ID        string          `json:"id"`
	Kind      RunKind         `json:"kind"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
