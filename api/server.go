package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ascendhq/ascendcore/config"
	"github.com/ascendhq/ascendcore/internal/challenge"
	"github.com/ascendhq/ascendcore/internal/evaluator"
	"github.com/ascendhq/ascendcore/token"
)

// Server serves the core over HTTP. It is a calling surface only: it
// translates between wire shapes and the core's typed requests/results,
// and never reimplements domain logic the core already owns.
type Server struct {
	config    config.Config
	generator *challenge.Generator
	evaluator *evaluator.Evaluator
	verifier  *token.Verifier
	router    *gin.Engine
}

// NewServer wires the generator, evaluator, and verifier behind the two
// endpoints §6 describes.
func NewServer(cfg config.Config, gen *challenge.Generator, eval *evaluator.Evaluator, verifier *token.Verifier) *Server {
	server := &Server{
		config:    cfg,
		generator: gen,
		evaluator: eval,
		verifier:  verifier,
	}

	router := gin.Default()
	router.Use(server.CORSMiddleware())

	authorized := router.Group("/").Use(server.authMiddleware())
	authorized.POST("/challenges/generate", server.generateChallenges)
	authorized.POST("/challenges/:id/submissions", server.createSubmission)

	server.router = router
	return server
}

// Start runs the HTTP server on address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}
