package trace

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Record is the trace of one command through the resolution tiers.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	Tiers     []Tier    `json:"tiers"`
	Intent    string    `json:"intent,omitempty"`
	Action    string    `json:"action,omitempty"`
}

// Tier is one stage of the resolution ladder.
type Tier struct {
	Name       string  `json:"name"` // "rule", "generative", "fallback"
	Confidence float64 `json:"confidence"`
	DurationMs int64   `json:"duration_ms"`
	Status     string  `json:"status,omitempty"`
}

// Logger appends one JSON record per analyzed command to a file
// (JSONL). A nil *Logger is valid and drops everything, so callers
// never need to guard their calls.
type Logger struct {
	mu      sync.Mutex
	path    string
	current *Record
}

// New creates a trace logger writing to path.
func New(path string) *Logger {
	return &Logger{path: path}
}

// Start begins a record for a command.
func (l *Logger) Start(command string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = &Record{
		Timestamp: time.Now(),
		Command:   command,
		Tiers:     make([]Tier, 0, 3),
	}
}

// AddTier records the outcome of one resolution tier.
func (l *Logger) AddTier(name string, confidence float64, duration time.Duration, status string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return
	}
	l.current.Tiers = append(l.current.Tiers, Tier{
		Name:       name,
		Confidence: confidence,
		DurationMs: duration.Milliseconds(),
		Status:     status,
	})
}

// End finalizes the record with the resolved intent/action and appends
// it to the trace file. Write failures are swallowed: tracing must
// never affect command processing.
func (l *Logger) End(intent, action string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return
	}

	l.current.Intent = intent
	l.current.Action = action

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		if data, err := json.Marshal(l.current); err == nil {
			f.Write(data)
			f.WriteString("\n")
		}
		f.Close()
	}

	l.current = nil
}
