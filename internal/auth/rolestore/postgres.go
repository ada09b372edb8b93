package rolestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kyckaro/pkg/domain"
	"kyckaro/pkg/platform/sentinel"
)

// Postgres persists role assignments in the user_roles table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS user_roles (
	user_id uuid PRIMARY KEY,
	role    text NOT NULL
);
`

// Migrate creates the user_roles table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate user_roles: %w", err)
	}
	return nil
}

func (s *Postgres) FindRole(ctx context.Context, userID domain.UserID) (domain.Role, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`,
		uuid.UUID(userID),
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}

	role, err := domain.ParseRole(raw)
	if err != nil {
		// Unknown stored value: least privilege rather than a hard failure.
		return domain.RoleEndUser, nil
	}
	return role, nil
}

func (s *Postgres) Assign(ctx context.Context, userID domain.UserID, role domain.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		uuid.UUID(userID),
		role.String(),
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
