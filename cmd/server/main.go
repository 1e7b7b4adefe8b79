package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mediq-health/mediq-api/internal/config"
	"github.com/mediq-health/mediq-api/internal/handler/v1"
	"github.com/mediq-health/mediq-api/internal/repository"
	"github.com/mediq-health/mediq-api/internal/scheduling"
	"github.com/mediq-health/mediq-api/internal/service"
	"github.com/mediq-health/mediq-api/pkg/auth"
	"github.com/mediq-health/mediq-api/pkg/database"
	"github.com/mediq-health/mediq-api/pkg/logger"
	"github.com/mediq-health/mediq-api/pkg/metrics"
	"github.com/mediq-health/mediq-api/pkg/tracer"
)

func main() {
	// .env is for local development; real deployments inject the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("building logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("mediq")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	hospitalRepo := repository.NewHospitalRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	prescriptionRepo := repository.NewPrescriptionRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)

	// Scheduling core
	startHour, startMin, err := config.ClockOf(cfg.Scheduling.BusinessHoursStart)
	if err != nil {
		return err
	}
	endHour, endMin, err := config.ClockOf(cfg.Scheduling.BusinessHoursEnd)
	if err != nil {
		return err
	}
	hours := scheduling.BusinessHours{
		StartHour:   startHour,
		StartMinute: startMin,
		EndHour:     endHour,
		EndMinute:   endMin,
	}
	scheduler := scheduling.NewScheduler(repository.NewSchedulingSource(appointmentRepo), hours, log)

	// Services
	auditSvc := service.NewAuditService(auditRepo, log)
	defer auditSvc.Shutdown()

	svcs := v1.Services{
		Auth:          service.NewAuthService(userRepo, jwtManager, auditSvc, log),
		Patients:      service.NewPatientService(patientRepo, auditSvc, log),
		Doctors:       service.NewDoctorService(doctorRepo, hospitalRepo, auditSvc, log),
		Hospitals:     service.NewHospitalService(hospitalRepo, auditSvc, log),
		Appointments:  service.NewAppointmentService(appointmentRepo, patientRepo, doctorRepo, scheduler, auditSvc, log, cfg.Scheduling.DefaultSlotMins),
		Records:       service.NewMedicalRecordService(recordRepo, patientRepo, auditSvc, log),
		Medicines:     service.NewMedicineService(medicineRepo, auditSvc, log),
		Prescriptions: service.NewPrescriptionService(prescriptionRepo, patientRepo, medicineRepo, auditSvc, log),
		Assistant:     service.NewAssistantService(assistantRepo, auditSvc, log),
	}

	router := v1.NewRouter(cfg, svcs, jwtManager, collector, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
