package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_organizations",
		SQL: `CREATE TABLE IF NOT EXISTS organizations (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL UNIQUE,
  owner_user_id UUID        NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  organization_id UUID        NOT NULL REFERENCES organizations (id) ON DELETE CASCADE,
  email           TEXT        NOT NULL UNIQUE,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_requirements",
		SQL: `CREATE TABLE IF NOT EXISTS requirements (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  organization_id   UUID        NOT NULL REFERENCES organizations (id) ON DELETE CASCADE,
  name              TEXT        NOT NULL,
  description       TEXT        NOT NULL DEFAULT '',
  expiration_date   DATE        NOT NULL,
  renewal_frequency TEXT        NOT NULL DEFAULT '',
  status            TEXT        NOT NULL DEFAULT 'missing'
                    CHECK (status IN ('missing', 'compliant', 'expiring_soon', 'expired')),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  requirement_id UUID        NOT NULL REFERENCES requirements (id) ON DELETE CASCADE,
  filename       TEXT        NOT NULL,
  storage_path   TEXT        NOT NULL UNIQUE,
  description    TEXT        NOT NULL DEFAULT '',
  size           BIGINT      NOT NULL CHECK (size >= 0),
  content_type   TEXT        NOT NULL,
  version        INT         NOT NULL CHECK (version >= 1),
  uploaded_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (requirement_id, version)
);`,
	},
	{
		Name: "create_table_reminder_logs",
		SQL: `CREATE TABLE IF NOT EXISTS reminder_logs (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  requirement_id UUID        NOT NULL REFERENCES requirements (id) ON DELETE CASCADE,
  reminder_type  TEXT        NOT NULL CHECK (reminder_type IN ('30_day', '7_day', 'day_of')),
  cycle_date     DATE        NOT NULL,
  sent_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  email_to       TEXT        NOT NULL
);`,
	},
	{
		Name: "create_table_job_runs",
		SQL: `CREATE TABLE IF NOT EXISTS job_runs (
  name            TEXT        PRIMARY KEY,
  last_success_at TIMESTAMPTZ NOT NULL
);`,
	},
	{
		Name: "create_index_users_organization",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_organization ON users (organization_id, created_at);`,
	},
	{
		Name: "create_index_requirements_organization",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_requirements_organization ON requirements (organization_id, expiration_date);`,
	},
	{
		Name: "create_index_requirements_expiration_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_requirements_expiration_date ON requirements (expiration_date);`,
	},
	{
		Name: "create_index_reminder_logs_lookup",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_reminder_logs_lookup ON reminder_logs (requirement_id, reminder_type, sent_at);`,
	},
}

// EnsureMigrated checks if the 'requirements' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.requirements') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
