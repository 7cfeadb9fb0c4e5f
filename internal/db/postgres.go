package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/schoolbridge-backend/internal/pkg/envutil"
	"github.com/yungbote/schoolbridge-backend/internal/pkg/logger"
	"github.com/yungbote/schoolbridge-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := envutil.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := envutil.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := envutil.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := envutil.GetEnv("POSTGRES_NAME", "schoolbridge", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&types.Subject{},
		&types.Content{},
		&types.SupplementaryMaterial{},
		&types.Question{},
		&types.Response{},
	); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	cascades := []struct {
		name, stmt string
	}{
		{"fk_content_subject_id", `
			ALTER TABLE "content"
			ADD CONSTRAINT "fk_content_subject_id"
			FOREIGN KEY ("subject_id") REFERENCES "subject"("id")
			ON DELETE CASCADE`},
		{"fk_supplementary_material_content_id", `
			ALTER TABLE "supplementary_material"
			ADD CONSTRAINT "fk_supplementary_material_content_id"
			FOREIGN KEY ("content_id") REFERENCES "content"("id")
			ON DELETE CASCADE`},
		{"fk_question_content_id", `
			ALTER TABLE "question"
			ADD CONSTRAINT "fk_question_content_id"
			FOREIGN KEY ("content_id") REFERENCES "content"("id")
			ON DELETE CASCADE`},
		{"fk_response_question_id", `
			ALTER TABLE "response"
			ADD CONSTRAINT "fk_response_question_id"
			FOREIGN KEY ("question_id") REFERENCES "question"("id")
			ON DELETE CASCADE`},
	}
	for _, c := range cascades {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, tableForConstraint(c.name), c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("drop %s: %w", c.name, err)
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", c.name, err)
		}
	}
	return nil
}

func tableForConstraint(name string) string {
	switch name {
	case "fk_content_subject_id":
		return "content"
	case "fk_supplementary_material_content_id":
		return "supplementary_material"
	case "fk_question_content_id":
		return "question"
	case "fk_response_question_id":
		return "response"
	}
	return ""
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
