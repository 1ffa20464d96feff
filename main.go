package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-time-tracker/backend/internal/cache"
	"task-time-tracker/backend/internal/clock"
	"task-time-tracker/backend/internal/config"
	"task-time-tracker/backend/internal/database"
	"task-time-tracker/backend/internal/handlers"
	"task-time-tracker/backend/internal/middleware"
	"task-time-tracker/backend/internal/models"
	"task-time-tracker/backend/internal/monitoring"
	"task-time-tracker/backend/internal/services"
	"task-time-tracker/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	db := pool.DB
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TaskStatusChange{},
		&models.Token{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	multiCache := cache.NewMultiLevelCache(redisCache)

	taskService := services.NewTaskService(clock.System())
	cachedTasks := services.NewCachedTaskService(taskService, multiCache)
	projectService := services.NewProjectService(clock.System())
	authService := services.NewAuthService()
	registerService := services.NewRegisterService()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return pool.Health()
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	backgroundWorker, scheduler := startWorker(cfg, db, redisCache, cachedTasks, authService)

	router := buildRouter(cfg, db, cachedTasks, projectService, authService, registerService)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if scheduler != nil {
		scheduler.Stop()
	}
	if backgroundWorker != nil {
		backgroundWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server exited")
}

func startWorker(
	cfg *config.Config,
	db *gorm.DB,
	redisCache *cache.RedisCache,
	tasks services.TaskService,
	auth services.AuthService,
) (*worker.Worker, *worker.DailyScheduler) {
	backgroundWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient:  redisCache.Client(),
		Concurrency:  cfg.Worker.Concurrency,
		PollInterval: cfg.Worker.PollInterval,
		Queues:       cfg.Worker.Queues,
	})

	backgroundWorker.RegisterHandler(worker.JobTypeDeactivateStale, func(ctx context.Context, job *worker.Job) error {
		count, err := tasks.DeactivateStaleTasks(db)
		if err != nil {
			return err
		}
		log.Printf("Deactivated %d stale tasks", count)
		return nil
	})
	backgroundWorker.RegisterHandler(worker.JobTypeTokenCleanup, func(ctx context.Context, job *worker.Job) error {
		count, err := auth.CleanupExpiredTokens(db)
		if err != nil {
			return err
		}
		log.Printf("Removed %d expired tokens", count)
		return nil
	})

	backgroundWorker.Start(cfg.Worker.Concurrency)

	var scheduler *worker.DailyScheduler
	if cfg.Scheduler.Enabled {
		queue := worker.NewJobQueue(redisCache.Client())
		scheduler = worker.NewDailyScheduler(queue, cfg.Scheduler.Queue)
		scheduler.Start()
	}

	return backgroundWorker, scheduler
}

func buildRouter(
	cfg *config.Config,
	db *gorm.DB,
	tasks services.TaskService,
	projects services.ProjectService,
	auth services.AuthService,
	register services.RegisterService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		router.Use(limiter.Middleware())
	}

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/health/live", monitoring.LivenessHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	authHandler := handlers.NewAuthHandler(db, auth)
	registerHandler := handlers.NewRegisterHandler(db, register)
	refreshHandler := handlers.NewRefreshHandler(db, auth)
	logoutHandler := handlers.NewLogoutHandler(db, auth)
	taskHandler := handlers.NewTaskHandler(db, tasks)
	dashboardHandler := handlers.NewDashboardHandler(db, tasks)
	projectHandler := handlers.NewProjectHandler(db, projects)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", registerHandler.Registration)
		authGroup.POST("/token", authHandler.Token)
		authGroup.POST("/refresh", refreshHandler.Refresh)
		authGroup.POST("/logout", logoutHandler.Logout)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthzMiddleware())
	{
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks", taskHandler.GetTasks)
		api.GET("/tasks/today", taskHandler.GetTodaysTasks)
		api.GET("/tasks/active", taskHandler.GetActiveTasks)
		api.GET("/tasks/completed", taskHandler.GetCompletedTasks)
		api.GET("/tasks/:id", taskHandler.GetTaskByID)
		api.PUT("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
		api.GET("/tasks/:id/history", taskHandler.GetTaskHistory)

		api.GET("/dashboard", dashboardHandler.GetDashboard)

		api.POST("/projects", projectHandler.CreateProject)
		api.GET("/projects", projectHandler.GetProjects)
		api.GET("/projects/:id", projectHandler.GetProjectByID)
	}

	return router
}
