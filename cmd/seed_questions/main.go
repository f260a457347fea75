package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quiz-engine/internal/adapter"
	"quiz-engine/internal/cache"
	"quiz-engine/internal/config"
	"quiz-engine/internal/database"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/repository"
	"quiz-engine/internal/service"

	"go.uber.org/zap"
)

const seedFilePath = "configs/seed_data/initial_questions.json"

// seedQuestion mirrors the JSON catalog layout.
type seedQuestion struct {
	Qid          string   `json:"qid"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Tags         []string `json:"tags"`
	IsPublished  bool     `json:"isPublished"`
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting question seeding process")

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	pool := service.NewQuestionPool(questionRepo, cacheAdapter, cfg.Quiz.PoolCacheTTL)

	byteValue, err := os.ReadFile(seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedFilePath), zap.Error(err))
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(byteValue, &seeds); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed catalog", zap.String("path", seedFilePath), zap.Int("questions", len(seeds)))

	var inserted, skipped int
	for _, s := range seeds {
		existing, err := questionRepo.GetByQid(ctx, s.Qid)
		if err != nil {
			log.Fatal("Failed to check existing question", zap.String("qid", s.Qid), zap.Error(err))
		}
		if existing != nil {
			log.Info("Question already present, skipping", zap.String("qid", s.Qid))
			skipped++
			continue
		}

		question := &domain.QuizQuestion{
			Qid:          s.Qid,
			Prompt:       s.Prompt,
			Choices:      s.Choices,
			CorrectIndex: s.CorrectIndex,
			Explanation:  s.Explanation,
			Category:     s.Category,
			Difficulty:   s.Difficulty,
			Tags:         s.Tags,
			IsPublished:  s.IsPublished,
		}
		if err := question.Validate(); err != nil {
			log.Fatal("Invalid seed question", zap.String("qid", s.Qid), zap.Error(err))
		}
		if err := questionRepo.Save(ctx, question); err != nil {
			log.Fatal("Failed to save question", zap.String("qid", s.Qid), zap.Error(err))
		}
		log.Info("Seeded question", zap.String("qid", s.Qid), zap.String("category", s.Category))
		inserted++
	}

	if inserted > 0 {
		if err := pool.Invalidate(ctx); err != nil {
			log.Warn("Failed to invalidate published pool cache", zap.Error(err))
		} else {
			log.Info("Invalidated published pool cache")
		}
	}

	log.Info("Question seeding completed", zap.Int("inserted", inserted), zap.Int("skipped", skipped))
}
