// Package challenge orchestrates prompt construction, LLM streaming, and
// incremental JSON parsing into the three-challenge generation batch, per
// spec §4.7. It publishes a channel of typed events in the same
// channel-of-events shape the wider example pool uses for LLM streaming
// (an agent's stream fanned out over a `go func` reader into a buffered
// channel), generalized here to also fan out to a second subscriber when a
// caller joins an already-running generation.
package challenge

import (
	"time"

	"github.com/google/uuid"

	"github.com/ascendhq/ascendcore/internal/repository"
)

// EventType discriminates the events Generate publishes.
type EventType string

const (
	EventStart           EventType = "start"
	EventProgress        EventType = "progress"
	EventChallengeChunk  EventType = "challenge_chunk"
	EventChallenge       EventType = "challenge"
	EventComplete        EventType = "complete"
	EventCancelled       EventType = "cancelled"
	EventError           EventType = "error"
)

// Event is one unit of generation progress. Which fields are meaningful
// depends on Type.
type Event struct {
	Type             EventType
	ProfileID        uuid.UUID
	Track            repository.Track
	Percent          int
	Message          string
	Index            int
	PartialChallenge map[string]any
	Challenge        repository.Challenge
	Challenges       []repository.Challenge
	Kind             repository.Kind
	Err              error
	At               time.Time
}
