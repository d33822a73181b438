package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascendhq/ascendcore/api"
	"github.com/ascendhq/ascendcore/config"
	db "github.com/ascendhq/ascendcore/db/sqlc"
	"github.com/ascendhq/ascendcore/internal/challenge"
	"github.com/ascendhq/ascendcore/internal/evaluator"
	"github.com/ascendhq/ascendcore/internal/llmclient"
	"github.com/ascendhq/ascendcore/internal/skillmapper"
	"github.com/ascendhq/ascendcore/token"
)

func main() {
	// Step 1: Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("❌ could not load configuration: %v", err)
	}
	log.Println("✅ Configuration loaded successfully.")

	// Step 2: Establish database connection pool
	connPool, err := pgxpool.New(context.Background(), cfg.DBSource)
	if err != nil {
		log.Fatalf("❌ could not connect to the database: %v", err)
	}
	defer connPool.Close()
	log.Println("✅ Database connection pool established.")

	// Step 3: Initialize the database store
	store := db.NewStore(connPool)

	// Step 4: Load the closed-world skill keyword table
	log.Println("🔄 Loading skill keyword table...")
	keywords, err := cfg.LoadSkillKeywords()
	if err != nil {
		log.Fatalf("❌ could not load skill keywords: %v", err)
	}
	mapper := skillmapper.New(keywords)
	log.Printf("✅ Loaded %d skill keyword sets.", len(keywords))

	// Step 5: Initialize the LLM client shared by generation and evaluation
	llmClient := llmclient.NewHTTPClient(cfg.LLMAPIURL, cfg.LLMAPIKey, &http.Client{})
	log.Println("✅ LLM client initialized.")

	// Step 6: Build the generator and evaluator
	generator := challenge.New(store, llmClient, challenge.Config{
		Model:               cfg.LLMModel,
		Temperature:         cfg.LLMTemperatureGeneration,
		Timeout:             cfg.Timeout(),
		MaxRetries:          cfg.LLMMaxRetries,
		EventQueueBound:     cfg.EventQueueBound,
		MaxActiveChallenges: cfg.MaxActiveChallengesPerProfile,
	})
	evaluatorSvc := evaluator.New(store, llmClient, mapper, evaluator.Config{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperatureEvaluation,
		Timeout:     cfg.Timeout(),
		MaxRetries:  cfg.LLMMaxRetries,
	})
	log.Println("✅ Generator and evaluator wired.")

	// Step 7: Build the token verifier
	verifier, err := token.NewVerifier(cfg.TokenSymmetricKey)
	if err != nil {
		log.Fatalf("❌ could not create token verifier: %v", err)
	}
	log.Println("✅ Token verifier initialized.")

	// Step 8: Create a new API server instance
	server := api.NewServer(cfg, generator, evaluatorSvc, verifier)
	log.Println("✅ API server created.")

	// Step 9: Start the HTTP server
	log.Printf("🚀 Starting server on %s", cfg.ServerAddress)
	if err := server.Start(cfg.ServerAddress); err != nil {
		log.Fatalf("❌ failed to start server: %v", err)
	}
}
