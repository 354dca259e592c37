package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

var (
	_ port.UserRepository    = (*MySQLAdapter)(nil)
	_ port.CatalogRepository = (*MySQLAdapter)(nil)
	_ port.OrderRepository   = (*MySQLAdapter)(nil)
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// DB exposes the underlying handle for migrations and test setup.
func (m *MySQLAdapter) DB() *sql.DB {
	return m.db
}

func isMySQLErr(err error, number uint16) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == number
}

func (m *MySQLAdapter) CreateUser(ctx context.Context, user *domain.User) error {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, created_at)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.Password, user.CreatedAt,
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrDuplicateEntry) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("user insert id: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return m.scanUser(m.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, created_at
		FROM users WHERE id = ?`, id,
	))
}

func (m *MySQLAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.scanUser(m.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, created_at
		FROM users WHERE username = ?`, username,
	))
}

func (m *MySQLAdapter) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
