package main

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/sagana-hq/workforce-backend-go/internal/config"
	appHTTP "github.com/sagana-hq/workforce-backend-go/internal/handler/http"
	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/middleware"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/jwt"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/permcache"
	"github.com/sagana-hq/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/sagana-hq/workforce-backend-go/internal/service/attendance"
	cashAdvanceService "github.com/sagana-hq/workforce-backend-go/internal/service/cashadvance"
	contributionService "github.com/sagana-hq/workforce-backend-go/internal/service/contribution"
	leaveService "github.com/sagana-hq/workforce-backend-go/internal/service/leave"
	payrollService "github.com/sagana-hq/workforce-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	permCache := permcache.New(redisClient, permcache.DefaultTTL)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveAllocationRepo := postgresql.NewLeaveAllocationRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	cashAdvanceRepo := postgresql.NewCashAdvanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	contributionRepo := postgresql.NewContributionRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		employeeRepo,
		siteRepo,
		cfg.Payroll,
	)
	leaveSvc := leaveService.NewLeaveService(
		leaveTypeRepo,
		leaveAllocationRepo,
		leaveRequestRepo,
		employeeRepo,
	)
	cashAdvanceSvc := cashAdvanceService.NewCashAdvanceService(
		cashAdvanceRepo,
		employeeRepo,
	)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		cashAdvanceRepo,
		contributionRepo,
		cfg.Payroll,
	)
	contributionSvc := contributionService.NewTableService(contributionRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, JWTService)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, JWTService)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc, JWTService)
	cashAdvanceHandler := appHTTP.NewCashAdvanceHandler(cashAdvanceSvc, JWTService)
	contributionHandler := appHTTP.NewContributionHandler(contributionSvc)

	roleMiddleware := middleware.NewRoleMiddleware(JWTService, permCache)

	router := appHTTP.NewRouter(
		JWTService,
		roleMiddleware,
		attendanceHandler,
		payrollHandler,
		leaveHandler,
		cashAdvanceHandler,
		contributionHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
