package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Environment overrides from .env (if present)
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	resultsDir := getEnv("RESULTS_DIR", filepath.Join(dataDir, "results"))

	// 2. Load configuration and the exam catalog; both fail fast
	config, err := LoadConfig(filepath.Join(dataDir, "config.json"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.ListenAddr = getEnv("LISTEN_ADDR", ":8000")
	config.DataDir = dataDir
	config.ResultsDir = resultsDir

	catalog, err := LoadCatalog(dataDir)
	if err != nil {
		log.Fatalf("Failed to load exam catalog: %v", err)
	}

	results, err := NewResultStore(resultsDir)
	if err != nil {
		log.Fatalf("Failed to initialize result store: %v", err)
	}

	// 3. Optional Redis leaderboard
	var leaderboard *LeaderboardRepository
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client, err := InitRedis(addr, os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		leaderboard = NewLeaderboardRepository(client)
	} else {
		log.Println("REDIS_ADDR not set, leaderboard disabled")
	}

	// 4. Session store with background sweep
	sessions := NewSessionStore(SessionTTL)
	go sessions.Sweep(SessionSweepInterval)

	// 5. Service and handlers
	service := NewExamService(config, catalog, sessions, results, leaderboard)
	handlers := NewExamHandlers(service, config, results, leaderboard)

	// 6. Create a new Fiber instance
	app := fiber.New(fiber.Config{
		AppName: "ExamSimulator_v1",
	})

	// 7. Middleware for better observability
	app.Use(logger.New())  // Logs every request to console
	app.Use(recover.New()) // Prevents the app from crashing on panics
	app.Use(cors.New())

	// 8. Route Definitions
	setupRoutes(app, handlers)

	// 9. Static front end
	app.Static("/", "./static")

	// 10. Start the server
	log.Fatal(app.Listen(config.ListenAddr))
}

// setupRoutes registers all API routes on the app.
func setupRoutes(app *fiber.App, handlers *ExamHandlers) {
	api := app.Group("/api")
	api.Get("/config", handlers.HandleGetConfig)
	api.Get("/exams", handlers.HandleGetExams)
	api.Get("/exams/:examID", handlers.HandleGetExam)
	api.Get("/statistics", handlers.HandleGetStatistics)

	exam := api.Group("/exam")
	exam.Post("/start", NewStartLimiter(), handlers.HandleStartExam)

	sessionLimiter := NewSessionLimiter()
	exam.Get("/:sessionID", sessionLimiter, handlers.HandleGetSession)
	exam.Get("/:sessionID/question", sessionLimiter, handlers.HandleGetCurrentQuestion)
	exam.Post("/:sessionID/answer", sessionLimiter, handlers.HandleSubmitAnswer)
	exam.Post("/:sessionID/navigate/:direction", sessionLimiter, handlers.HandleNavigate)
	exam.Post("/:sessionID/jump/:number", sessionLimiter, handlers.HandleJump)
	exam.Get("/:sessionID/progress", sessionLimiter, handlers.HandleGetProgress)
	exam.Post("/:sessionID/submit", sessionLimiter, handlers.HandleSubmitExam)
	exam.Get("/:sessionID/review", sessionLimiter, handlers.HandleReview)

	api.Get("/results", handlers.HandleListResults)
	api.Get("/results/:sessionID", handlers.HandleGetResult)
	api.Get("/leaderboard/:examID", handlers.HandleGetLeaderboard)
}
