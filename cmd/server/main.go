package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/subtrackhq/go-subtrack-backend/internal/api/handlers"
	"github.com/subtrackhq/go-subtrack-backend/internal/config"
	"github.com/subtrackhq/go-subtrack-backend/internal/middleware"
	"github.com/subtrackhq/go-subtrack-backend/internal/model"
	"github.com/subtrackhq/go-subtrack-backend/internal/repository"
	"github.com/subtrackhq/go-subtrack-backend/internal/service"
)

func main() {

	// LOAD ENV
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed load config:", err)
	}

	// INIT DB
	repo, err := repository.NewPostgresRepoFromConfig(&repository.DBConfig{
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("failed connect db:", err)
	}

	// MIGRATIONS
	if err := repo.RunMigrations(context.Background()); err != nil {
		log.Fatal("migration error:", err)
	}

	// EMPLOYEE DIRECTORY (gorm)
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName)
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed connect employee directory:", err)
	}
	if err := gdb.AutoMigrate(&model.Employee{}); err != nil {
		log.Fatal("employee migration error:", err)
	}

	// ADMIN SEED
	hashed, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err := repo.UpsertAdmin(context.Background(), cfg.AdminUsername, string(hashed)); err != nil {
		log.Println("failed seeding admin:", err)
	} else {
		log.Println("admin seeded OK")
	}

	// SERVICES
	employeeSvc := service.NewEmployeeService(gdb)
	subtaskSvc := service.NewSubtaskService(repo, cfg)
	aggSvc := service.NewAggregationService(repo, employeeSvc, cfg)
	authSvc := service.NewAuthService(repo, cfg.JWTSecret)

	// HANDLERS
	authHandler := handlers.NewAuthHandler(authSvc)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskSvc, aggSvc)
	dashboardHandler := handlers.NewDashboardHandler(aggSvc)
	employeeHandler := handlers.NewEmployeeHandler(employeeSvc)

	// ROUTER
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api := r.Group("/api/v1")

	// AUTH ROUTES
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// DASHBOARD ROUTES (read-only)
	api.GET("/rollup", dashboardHandler.Rollup)
	api.GET("/subtasks", subtaskHandler.List)
	api.GET("/activity", subtaskHandler.Active)
	api.GET("/subtasks/:id", subtaskHandler.Get)
	api.GET("/subtasks/:id/summary", subtaskHandler.Summary)

	// EMPLOYEE DIRECTORY ROUTES
	emp := api.Group("/employees")
	{
		emp.GET("", employeeHandler.ListEmployees)
		emp.GET("/:id", employeeHandler.GetEmployee)
	}

	// MUTATION ROUTES (JWT protected)
	mut := api.Group("")
	mut.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		mut.POST("/subtasks", subtaskHandler.Create)
		mut.PATCH("/subtasks/:id", subtaskHandler.Patch)
		mut.DELETE("/subtasks/:id", subtaskHandler.Delete)
		mut.POST("/subtasks/:id/stages/:index/complete", subtaskHandler.CompleteStage)
		mut.POST("/subtasks/:id/timelogs/start", subtaskHandler.StartTimeLog)
		mut.POST("/subtasks/:id/timelogs/stop", subtaskHandler.StopTimeLog)
		mut.POST("/bulk/update", subtaskHandler.BulkUpdate)
		mut.POST("/bulk/delete", subtaskHandler.BulkDelete)
		mut.POST("/employees", employeeHandler.UpsertEmployee)
	}

	// START SERVER
	log.Println("Server running on port:", cfg.Port)
	r.Run(":" + cfg.Port)
}
