package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"quizroom/config"
	"quizroom/database"
	"quizroom/internal/cache"
	streamctrl "quizroom/internal/controller/stream"
	studentctrl "quizroom/internal/controller/student"
	teacherctrl "quizroom/internal/controller/teacher"
	"quizroom/internal/logger"
	"quizroom/internal/model"
	"quizroom/internal/repository"
	"quizroom/internal/service"
)

// @title Quiz Room API
// @version 1.0
// @description Classroom quiz platform: teachers author (or AI-generate) quizzes, students join via a 6-character code, submissions are scored and ranked on a live leaderboard.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewRedisClient,
		),

		// Repositories layer
		fx.Provide(
			repository.NewQuizRepository,
			repository.NewSubmissionRepository,
			repository.NewUserRepository,
		),

		// Services layer
		fx.Provide(
			NewQuizLookup,
			service.NewScoringService,
			service.NewRankingService,
			service.NewLeaderboardHub,
			service.NewQuizService,
			service.NewResultsService,
			service.NewSubmissionService,
			service.NewQuizGeneratorService,
		),

		// API controllers layer
		fx.Provide(
			teacherctrl.NewTeacherQuizController,
			studentctrl.NewStudentQuizController,
			streamctrl.NewLeaderboardWSController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewRedisClient connects to Redis when an address is configured. A nil client
// means the join-code lookup falls back to the database on every request.
func NewRedisClient(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR is not set. Join-code caching disabled.")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis ping failed")
				return err
			}
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

// NewQuizLookup picks the cached join-code lookup when Redis is available and
// the plain repository lookup otherwise.
func NewQuizLookup(client *redis.Client, repo repository.QuizRepository) service.QuizLookup {
	if client == nil {
		return service.NewRepositoryQuizLookup(repo)
	}
	return cache.NewRedisQuizLookup(client, repo, cache.DefaultQuizTTL)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	teacherCtrl *teacherctrl.TeacherQuizController,
	studentCtrl *studentctrl.StudentQuizController,
	streamCtrl *streamctrl.LeaderboardWSController,
) {
	// Teacher routes (prefixed with /api/v1/teacher)
	teacherAPIGroup := router.Group("/api/v1/teacher")
	{
		quizzesGroup := teacherAPIGroup.Group("/quizzes")
		quizzesGroup.POST("", teacherCtrl.CreateQuiz)
		quizzesGroup.POST("/generate", teacherCtrl.GenerateQuiz)
		quizzesGroup.GET("", teacherCtrl.ListQuizzes)
		quizzesGroup.PATCH("/:quiz_id", teacherCtrl.UpdateQuiz)
		quizzesGroup.DELETE("/:quiz_id", teacherCtrl.DeleteQuiz)
		quizzesGroup.GET("/:quiz_id/results", teacherCtrl.QuizResults)
	}

	// Student routes (prefixed with /api/v1)
	studentAPIGroup := router.Group("/api/v1")
	{
		studentAPIGroup.GET("/quizzes/join/:join_code", studentCtrl.JoinQuiz)
		studentAPIGroup.POST("/submissions", studentCtrl.SubmitQuiz)
		studentAPIGroup.DELETE("/submissions/:submission_id", studentCtrl.DeleteSubmission)
		studentAPIGroup.GET("/students/:student_id/submissions", studentCtrl.ListSubmissions)
		studentAPIGroup.GET("/quizzes/:quiz_id/leaderboard", studentCtrl.Leaderboard)
		studentAPIGroup.GET("/quizzes/:quiz_id/submissions/:submission_id/rank", studentCtrl.SubmissionRank)

		studentAPIGroup.GET("/ws/quizzes/:quiz_id/leaderboard", streamCtrl.ServeLeaderboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz Room API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Quiz{},
		&model.Question{},
		&model.Submission{},
		&model.User{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
