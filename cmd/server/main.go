package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IcramDoku/cmsc447project/internal/auth"
	"github.com/IcramDoku/cmsc447project/internal/cache"
	"github.com/IcramDoku/cmsc447project/internal/config"
	"github.com/IcramDoku/cmsc447project/internal/database"
	"github.com/IcramDoku/cmsc447project/internal/handlers"
	"github.com/IcramDoku/cmsc447project/internal/middleware"
	"github.com/IcramDoku/cmsc447project/internal/repository"
	"github.com/IcramDoku/cmsc447project/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// One signing secret for the process lifetime. Tokens are verified
	// against the same secret they were signed with.
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		generated, err := auth.NewRandomSecret()
		if err != nil {
			log.Fatalf("Failed to generate signing secret: %v", err)
		}
		secret = generated
		log.Println("JWT_SECRET not set; using a generated secret, tokens will not survive a restart")
	}
	tokenIssuer := auth.NewTokenIssuer(secret)

	// Optional Redis-backed member list cache
	memberCache, err := cache.NewMemberCache(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if memberCache == nil {
		log.Println("REDIS_ADDR not set; member list caching disabled")
	}

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(0), tokenIssuer)
	taskService := services.NewTaskService(taskRepo, groupRepo, memberCache)
	groupService := services.NewGroupService(groupRepo, memberCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	groupHandler := handlers.NewGroupHandler(groupService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task tracker API is running",
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (public)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/create_user", authHandler.Register)
		authRoutes.POST("/login_user", authHandler.Login)
		authRoutes.GET("/me", middleware.RequireAuth(tokenIssuer), authHandler.Me)
	}

	// Task routes (protected)
	taskRoutes := r.Group("/task")
	taskRoutes.Use(middleware.RequireAuth(tokenIssuer))
	{
		taskRoutes.GET("/group_members_for_task/:taskId", taskHandler.GroupMembersForTask)
		taskRoutes.POST("/add_member_to_task/:taskId", middleware.RequireTaskAccess(), taskHandler.AddMemberToTask)
		taskRoutes.POST("/create_task/:groupId", taskHandler.CreateTask)
		taskRoutes.GET("/get_tasks/:groupId", taskHandler.ListTasks)
		taskRoutes.PUT("/edit_task", taskHandler.EditTask)
		taskRoutes.DELETE("/delete_task/:taskId", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
	}

	// Group routes (protected)
	groupRoutes := r.Group("/group")
	groupRoutes.Use(middleware.RequireAuth(tokenIssuer))
	{
		groupRoutes.POST("/create_group", groupHandler.CreateGroup)
		groupRoutes.POST("/join_group", groupHandler.JoinGroup)
		groupRoutes.GET("/get_groups", groupHandler.ListGroups)
		groupRoutes.GET("/get_members/:groupId", groupHandler.GetMembers)
	}

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
