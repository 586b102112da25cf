package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/forummlcb/topdup/db"
	"github.com/forummlcb/topdup/internal/handler"
	"github.com/forummlcb/topdup/internal/repository"
	"github.com/forummlcb/topdup/pkg/auth"
	"github.com/forummlcb/topdup/pkg/notify"
	"github.com/forummlcb/topdup/pkg/similarity"
)

const defaultMinReportScore = 0.5

func main() {

	godotenv.Load()

	conn, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	queue, err := db.ConnectRedis()
	if err != nil {
		slog.Warn("redis unavailable, notifications disabled", "error", err)
		queue = nil
	}
	defer queue.Close()

	minScore := defaultMinReportScore
	if raw := os.Getenv("MIN_REPORT_SCORE"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			slog.Warn("invalid MIN_REPORT_SCORE, using default", "value", raw, "default", defaultMinReportScore)
		} else {
			minScore = parsed
		}
	}

	var notifier handler.ReportNotifier
	var queueStats handler.QueueStats
	if queue != nil {
		notifier = notify.NewNotifier(queue)
		queueStats = queue
	}

	reportRepo := repository.NewReportRepository(conn)
	voteRepo := repository.NewVoteRepository(conn)

	reportHandler := handler.NewReportHandler(reportRepo, notifier, queueStats, minScore)
	voteHandler := handler.NewVoteHandler(voteRepo)

	scorer := similarity.NewClient(os.Getenv("SCORER_URL"), os.Getenv("SCORER_API_KEY"))
	compareHandler := handler.NewCompareHandler(scorer)

	authClient := auth.NewClient(os.Getenv("AUTH_URL"))

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.Use(handler.Identity(authClient))

	r.GET("/reports", reportHandler.ListReports)
	r.GET("/reports/:id", reportHandler.GetReport)
	r.POST("/reports", reportHandler.CreateReport)
	r.POST("/reports/:id/votes", voteHandler.CastVote)
	r.POST("/compare", compareHandler.Compare)
	r.GET("/articles/:id", reportHandler.GetArticle)
	r.GET("/health", reportHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
