package domain

import (
	"fmt"
	"time"
)

// KeyDebugMode is the guild data key that enables latency reporting.
const KeyDebugMode = "debug_mode"

// PingResult represents the result of a ping operation.
type PingResult struct {
	Message   string
	Latency   time.Duration
	Timestamp time.Time
}

// NewPingResult creates a new PingResult. A positive latency is included in
// the message.
func NewPingResult(latency time.Duration) *PingResult {
	message := "Pong!"
	if latency > 0 {
		message = fmt.Sprintf("Pong! Gateway latency: %dms", latency.Milliseconds())
	}

	return &PingResult{
		Message:   message,
		Latency:   latency,
		Timestamp: time.Now(),
	}
}
