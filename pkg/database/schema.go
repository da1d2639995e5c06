package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS persons (
    id UUID PRIMARY KEY,
    full_name VARCHAR(255) NOT NULL,
    national_id VARCHAR(20) UNIQUE NOT NULL,
    phone VARCHAR(20),
    address TEXT,
    email VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS procedures (
    id UUID PRIMARY KEY,
    person_id UUID NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
    type VARCHAR(255) NOT NULL,
    description TEXT,
    document_date DATE NOT NULL,
    responsible_party VARCHAR(255) NOT NULL,
    status VARCHAR(50) NOT NULL DEFAULT 'Pendiente',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY,
    procedure_id UUID NOT NULL REFERENCES procedures(id) ON DELETE CASCADE,
    display_name VARCHAR(255) NOT NULL,
    media_type VARCHAR(100) NOT NULL,
    date DATE NOT NULL,
    storage_path VARCHAR(500) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(50) NOT NULL DEFAULT 'admin',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_procedures_person_id ON procedures(person_id);
CREATE INDEX IF NOT EXISTS idx_documents_procedure_id ON documents(procedure_id);
`

// Default credentials seeded on first startup. Operators are expected to
// rotate the password immediately; the seed logs a warning until then.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// EnsureSchema creates the tables and indexes when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedDefaultAdmin inserts the well-known admin account when the users table
// has no row for it yet.
func SeedDefaultAdmin(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var existing string
	err := db.GetContext(ctx, &existing, "SELECT id FROM users WHERE username = $1", DefaultAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	const query = `INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := db.ExecContext(ctx, query, uuid.NewString(), DefaultAdminUsername, string(hash), "admin", time.Now().UTC()); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}

	logger.Warn("default admin account created, change its password",
		zap.String("username", DefaultAdminUsername))
	return nil
}
