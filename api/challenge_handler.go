// api/challenge_handler.go

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ascendhq/ascendcore/internal/challenge"
	"github.com/ascendhq/ascendcore/internal/repository"
	"github.com/google/uuid"
)

// difficultyPayload is the wire shape of a Challenge's difficulty (spec §6).
type difficultyPayload struct {
	Level            repository.DifficultyLevel `json:"level"`
	TimeLimitMinutes int                        `json:"time_limit_minutes"`
}

// challengePayload is the wire shape of a Challenge (spec §6).
type challengePayload struct {
	ChallengeID    uuid.UUID                  `json:"challenge_id"`
	ProfileID      uuid.UUID                  `json:"profile_id"`
	Category       repository.Category        `json:"category"`
	Title          string                     `json:"title"`
	Description    map[string]any             `json:"description"`
	Difficulty     difficultyPayload          `json:"difficulty"`
	TargetSkill    string                     `json:"target_skill"`
	AffectedSkills []string                   `json:"affected_skills"`
	TemplateCode   any                        `json:"template_code"`
	Status         repository.ChallengeStatus `json:"status"`
}

func toChallengePayload(c repository.Challenge) challengePayload {
	return challengePayload{
		ChallengeID: c.ChallengeID,
		ProfileID:   c.ProfileID,
		Category:    c.Category,
		Title:       c.Title,
		Description: c.Description,
		Difficulty: difficultyPayload{
			Level:            c.Difficulty.Level,
			TimeLimitMinutes: c.Difficulty.TimeLimitMinutes,
		},
		TargetSkill:    c.TargetSkill,
		AffectedSkills: c.AffectedSkills,
		TemplateCode:   c.TemplateCode,
		Status:         c.Status,
	}
}

func toChallengePayloads(cs []repository.Challenge) []challengePayload {
	out := make([]challengePayload, len(cs))
	for i, c := range cs {
		out[i] = toChallengePayload(c)
	}
	return out
}

// challengeEventPayload is the wire shape of one SSE frame, flattened
// from challenge.Event so callers never see the core's Kind/Err types.
type challengeEventPayload struct {
	Type             challenge.EventType `json:"type"`
	Percent          int                 `json:"percent,omitempty"`
	Message          string              `json:"message,omitempty"`
	Track            string              `json:"track,omitempty"`
	Index            int                 `json:"index,omitempty"`
	PartialChallenge map[string]any      `json:"partial_challenge,omitempty"`
	Challenge        any                 `json:"challenge,omitempty"`
	Challenges       any                 `json:"challenges,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// generateChallenges handles POST /challenges/generate: it streams the
// three-challenge generation batch to the caller as Server-Sent Events,
// one frame per challenge.Event, grounded on the teacher's sendSSE
// write-then-flush pattern.
func (server *Server) generateChallenges(ctx *gin.Context) {
	profileID, err := getProfileID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	events, err := server.generator.Generate(ctx.Request.Context(), profileID)
	if err != nil {
		ctx.JSON(statusFor(err), errorResponse(err))
		return
	}

	flusher, ok := ctx.Writer.(http.Flusher)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Errorf("streaming unsupported")))
		return
	}

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.WriteHeader(http.StatusOK)

	for ev := range events {
		payload := challengeEventPayload{
			Type:             ev.Type,
			Percent:          ev.Percent,
			Message:          ev.Message,
			Track:            string(ev.Track),
			Index:            ev.Index,
			PartialChallenge: ev.PartialChallenge,
		}
		if ev.Type == challenge.EventChallenge {
			payload.Challenge = toChallengePayload(ev.Challenge)
		}
		if ev.Type == challenge.EventComplete {
			payload.Challenges = toChallengePayloads(ev.Challenges)
		}
		if ev.Err != nil {
			payload.Error = ev.Err.Error()
		}

		writeSSE(ctx.Writer, flusher, payload)

		select {
		case <-ctx.Request.Context().Done():
			return
		default:
		}
	}
}

// writeSSE writes one Server-Sent Event frame and flushes it immediately
// so the client sees progress as it happens, not buffered at the end.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}
