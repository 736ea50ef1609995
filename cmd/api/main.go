package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nikul55640/HRM-System-sub001/internal/config"
	appHTTP "github.com/Nikul55640/HRM-System-sub001/internal/handler/http"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/cron"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/jwt"
	"github.com/Nikul55640/HRM-System-sub001/internal/repository/postgresql"
	attendanceService "github.com/Nikul55640/HRM-System-sub001/internal/service/attendance"
	authService "github.com/Nikul55640/HRM-System-sub001/internal/service/auth"
	"github.com/Nikul55640/HRM-System-sub001/internal/service/finalization"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		log.Fatal("Invalid COMPANY_TIMEZONE: ", cfg.Attendance.Timezone)
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	calendarRepo := postgresql.NewCalendarRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewService(db, attendanceRepo, shiftRepo, notificationRepo, auditRepo, loc)
	authSvc := authService.NewService(employeeRepo, jwtService)
	finalizationJob := finalization.NewJob(
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		calendarRepo,
		leaveRepo,
		correctionRepo,
		auditRepo,
		loc,
		time.Duration(cfg.Attendance.AbsentBufferMinutes)*time.Minute,
		time.Duration(cfg.Attendance.BulkFinalizeDelayMS)*time.Millisecond,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(finalizationJob)
	attendanceJobs.RegisterJobs(scheduler, time.Duration(cfg.Attendance.FinalizeIntervalMinutes)*time.Minute)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	finalizationHandler := appHTTP.NewFinalizationHandler(finalizationJob, correctionRepo)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		finalizationHandler,
		cfg.App.Env,
		cfg.App.AllowedOrigins,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Close(); err != nil {
		fmt.Println("Server close error:", err)
	}
}
