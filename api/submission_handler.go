// api/submission_handler.go

package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ascendhq/ascendcore/internal/evaluator"
	"github.com/ascendhq/ascendcore/internal/repository"
)

// submissionRequest is the tagged union spec §6 describes: exactly one of
// Files, Content, FormData is populated depending on Type.
type submissionRequest struct {
	Type          repository.SubmissionType  `json:"type" binding:"required"`
	Files         map[string]string          `json:"files"`
	Content       string                     `json:"content"`
	FormData      map[string]map[string]any  `json:"form_data"`
	TimeTakenSec  int                        `json:"time_taken_sec"`
	CommitMessage string                     `json:"commit_message"`
	Notes         string                     `json:"notes"`
}

// skillsProgressionPayload is the wire shape of the EvaluationResult's
// skills_progression field (spec §6).
type skillsProgressionPayload struct {
	Deltas        map[string]int    `json:"deltas"`
	NewValues     map[string]int    `json:"new_values"`
	SkillsUpdated []string          `json:"skills_updated"`
	Reasoning     map[string]string `json:"reasoning"`
}

// evaluationResultPayload is the wire shape of EvaluationResult (spec §6).
type evaluationResultPayload struct {
	SubmissionID      uuid.UUID                `json:"submission_id"`
	Status            repository.SubmissionStatus `json:"status"`
	Score             int                      `json:"score"`
	Metrics           map[string]any           `json:"metrics"`
	Feedback          string                   `json:"feedback"`
	SkillsProgression skillsProgressionPayload `json:"skills_progression"`
	Warnings          []string                 `json:"warnings,omitempty"`
}

func toEvaluationResultPayload(r evaluator.Result) evaluationResultPayload {
	return evaluationResultPayload{
		SubmissionID: r.SubmissionID,
		Status:       r.Status,
		Score:        r.Score,
		Metrics:      r.Metrics,
		Feedback:     r.Feedback,
		SkillsProgression: skillsProgressionPayload{
			Deltas:        r.SkillsProgression.Deltas,
			NewValues:     r.SkillsProgression.NewValues,
			SkillsUpdated: r.SkillsProgression.SkillsUpdated,
			Reasoning:     r.SkillsProgression.Reasoning,
		},
		Warnings: r.Warnings,
	}
}

// createSubmission handles POST /challenges/:id/submissions: it renders
// the submission, scores it through the evaluator, persists the result,
// and returns the EvaluationResult JSON.
func (server *Server) createSubmission(ctx *gin.Context) {
	profileID, err := getProfileID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, errorResponse(err))
		return
	}

	challengeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	var req submissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	sub := repository.Submission{
		Type:          req.Type,
		Files:         req.Files,
		Content:       req.Content,
		FormData:      req.FormData,
		TimeTakenSec:  req.TimeTakenSec,
		CommitMessage: req.CommitMessage,
		Notes:         req.Notes,
	}

	result, err := server.evaluator.Evaluate(ctx.Request.Context(), profileID, challengeID, sub)
	if err != nil {
		ctx.JSON(statusFor(err), errorResponse(err))
		return
	}
	for _, w := range result.Warnings {
		log.Printf("DEBUG: submission %s: %s", result.SubmissionID, w)
	}

	ctx.JSON(http.StatusOK, toEvaluationResultPayload(result))
}
