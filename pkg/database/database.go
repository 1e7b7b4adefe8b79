package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mediq-health/mediq-api/internal/config"
	"github.com/mediq-health/mediq-api/internal/domain"
	"github.com/mediq-health/mediq-api/internal/domain/appointment"
	"github.com/mediq-health/mediq-api/internal/domain/assistant"
	"github.com/mediq-health/mediq-api/internal/domain/doctor"
	"github.com/mediq-health/mediq-api/internal/domain/hospital"
	"github.com/mediq-health/mediq-api/internal/domain/medicine"
	"github.com/mediq-health/mediq-api/internal/domain/patient"
	"github.com/mediq-health/mediq-api/internal/domain/prescription"
	"github.com/mediq-health/mediq-api/internal/domain/record"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit", "admin"} // logical namespaces
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&hospital.Hospital{},
		&doctor.Doctor{},
		&patient.Patient{},
		&appointment.Appointment{},
		&record.MedicalRecord{},
		&record.Addendum{},
		&medicine.Medicine{},
		&prescription.Prescription{},
		&assistant.AgentConfig{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db, log); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB, log *zap.Logger) error {
	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error
	_ = db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error

	indexes := []struct {
		name  string
		query string
	}{
		// Conflict and free-slot queries scan a doctor's active bookings by time.
		{
			name:  "idx_appointments_doctor_schedule",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_schedule ON clinical.appointments (doctor_id, scheduled_at, duration_mins) WHERE deleted_at IS NULL AND status IN ('scheduled', 'confirmed', 'in_progress')`,
		},
		// Store-level backstop for the check-then-act race in booking: two
		// requests can both pass the application conflict check, but the
		// exclusion constraint rejects the second overlapping insert.
		{
			name: "appointments_no_overlap",
			query: `ALTER TABLE clinical.appointments ADD CONSTRAINT appointments_no_overlap
				EXCLUDE USING gist (
					doctor_id WITH =,
					tsrange(scheduled_at, scheduled_at + make_interval(mins => duration_mins)) WITH &&
				) WHERE (deleted_at IS NULL AND status IN ('scheduled', 'confirmed', 'in_progress'))`,
		},
		{
			name:  "idx_patients_name_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_patients_name_trgm ON clinical.patients USING gin ((first_name || ' ' || last_name) gin_trgm_ops) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_prescriptions_active",
			query: `CREATE INDEX IF NOT EXISTS idx_prescriptions_active ON clinical.prescriptions (patient_id, status, expires_at) WHERE deleted_at IS NULL AND status = 'active'`,
		},
		{
			name:  "idx_medicines_name_trgm",
			query: `CREATE INDEX IF NOT EXISTS idx_medicines_name_trgm ON clinical.medicines USING gin ((name || ' ' || generic_name) gin_trgm_ops) WHERE deleted_at IS NULL`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			// Constraints are not idempotent the way indexes are; an
			// already-exists error on re-run is expected.
			log.Debug("index creation skipped", zap.String("index", idx.name), zap.Error(err))
		}
	}

	return nil
}
