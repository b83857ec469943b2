package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tushar-behera15/padh-ai-tracker/internal/domain"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/envutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.Str("POSTGRES_HOST", "localhost")
	port := envutil.Str("POSTGRES_PORT", "5432")
	user := envutil.Str("POSTGRES_USER", "postgres")
	password := envutil.Str("POSTGRES_PASSWORD", "")
	name := envutil.Str("POSTGRES_NAME", "padhai")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(
		&domain.User{},
		&domain.UserToken{},
		&domain.Subject{},
		&domain.Chapter{},
		&domain.Score{},
		&domain.Revision{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	s.log.Info("Configuring foreign key relationships...")
	// Deletes must cascade down the ownership chain; revision rows are also
	// cleared explicitly before their score inside the replace transaction,
	// the FK is the backstop for subject/chapter deletes.
	constraints := []struct {
		name string
		ddl  string
	}{
		{"fk_user_tokens_user_id", `ALTER TABLE "user_tokens" ADD CONSTRAINT "fk_user_tokens_user_id" FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE`},
		{"fk_subjects_user_id", `ALTER TABLE "subjects" ADD CONSTRAINT "fk_subjects_user_id" FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE CASCADE`},
		{"fk_chapters_subject_id", `ALTER TABLE "chapters" ADD CONSTRAINT "fk_chapters_subject_id" FOREIGN KEY ("subject_id") REFERENCES "subjects"("id") ON DELETE CASCADE`},
		{"fk_scores_chapter_id", `ALTER TABLE "scores" ADD CONSTRAINT "fk_scores_chapter_id" FOREIGN KEY ("chapter_id") REFERENCES "chapters"("id") ON DELETE CASCADE`},
		{"fk_revisions_score_id", `ALTER TABLE "revisions" ADD CONSTRAINT "fk_revisions_score_id" FOREIGN KEY ("score_id") REFERENCES "scores"("id") ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		var count int64
		if err := s.db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, c.name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", c.name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.ddl).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
