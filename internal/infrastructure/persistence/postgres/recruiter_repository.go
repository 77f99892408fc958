package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"recruit-dash/internal/domain/user"

	"github.com/google/uuid"
)

// RecruiterRepository stores dashboard users in the recruiters table using
// statements prepared once at construction.
type RecruiterRepository struct {
	stmtCreate      *sql.Stmt
	stmtGetByID     *sql.Stmt
	stmtGetByEmail  *sql.Stmt
	stmtExistsEmail *sql.Stmt
}

func NewRecruiterRepository(ctx context.Context, db *sql.DB) (*RecruiterRepository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	r := &RecruiterRepository{}

	prepare := func(dst **sql.Stmt, query string) error {
		s, err := db.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	steps := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtCreate, `INSERT INTO recruiters (id, email, name, role, password_hash) VALUES ($1, $2, $3, $4, $5)`},
		{&r.stmtGetByID, `SELECT id, email, name, role, password_hash, created_at, updated_at FROM recruiters WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT id, email, name, role, password_hash, created_at, updated_at FROM recruiters WHERE lower(email) = lower($1)`},
		{&r.stmtExistsEmail, `SELECT EXISTS(SELECT 1 FROM recruiters WHERE lower(email) = lower($1))`},
	}
	for _, s := range steps {
		if err := prepare(s.dst, s.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *RecruiterRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByEmail)
	closeStmt(r.stmtExistsEmail)

	return firstErr
}

func (r *RecruiterRepository) CreateUser(ctx context.Context, u user.User) error {
	role := u.Role
	if role == "" {
		role = user.RoleRecruiter
	}
	_, err := r.stmtCreate.ExecContext(ctx, u.ID, strings.TrimSpace(u.Email), u.Name, string(role), u.PasswordHash)
	return err
}

func (r *RecruiterRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *RecruiterRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.stmtGetByEmail.QueryRowContext(ctx, strings.TrimSpace(email)))
}

func (r *RecruiterRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.stmtExistsEmail.QueryRowContext(ctx, strings.TrimSpace(email)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

var _ user.Repository = (*RecruiterRepository)(nil)
