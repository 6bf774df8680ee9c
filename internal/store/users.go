package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dvalle/modastore-golang/internal/models"
)

// UserModel is the MySQL-backed UserStore.
type UserModel struct {
	DB *sql.DB
}

func (m *UserModel) Create(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (role, email, password_hash, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := m.DB.Exec(query,
		user.Role, user.Email, user.PasswordHash, user.FullName, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		// 1062 = duplicate entry, here only possible on the unique email index
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateEmail
		}
		return err
	}

	user.ID, err = result.LastInsertId()
	return err
}

func (m *UserModel) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, role, email, password_hash, full_name, created_at, updated_at
		FROM users
		WHERE email = ?`

	var u models.User
	err := m.DB.QueryRow(query, email).Scan(
		&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (m *UserModel) GetByID(id int64) (*models.User, error) {
	query := `
		SELECT id, role, email, password_hash, full_name, created_at, updated_at
		FROM users
		WHERE id = ?`

	var u models.User
	err := m.DB.QueryRow(query, id).Scan(
		&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (m *UserModel) CountClients() (int, error) {
	var count int
	err := m.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'client'").Scan(&count)
	return count, err
}
