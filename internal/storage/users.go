package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/growthx/assignment-portal/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его uid,
// сгенерированный базой.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid, created_at, updated_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).
		Scan(&user.UID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE uid = $1`
	return scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// GetUserByEmail возвращает пользователя по email без фильтра по роли:
// так работает поиск на логине обычного пользователя.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE email = $1 LIMIT 1`
	return scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetAdminByEmail возвращает администратора по email (role=admin).
func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetAdminByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE email = $1 AND role = 'admin' LIMIT 1`
	return scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUserByUsernameAndRole возвращает пользователя по паре (username, role).
func (s *Storage) GetUserByUsernameAndRole(ctx context.Context, username, role string) (*models.User, error) {
	const op = "storage.GetUserByUsernameAndRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := userSelect + ` WHERE username = $1 AND role = $2 LIMIT 1`
	return scanUser(s.DB.QueryRowContext(ctx, query, username, role), op)
}

// UserExists сообщает, есть ли пользователь с таким email или username
// среди всех учётных записей независимо от роли.
//
// Проверка уникальности для user-регистрации глобальная, а для
// admin-регистрации (AdminExists) — только среди администраторов.
func (s *Storage) UserExists(ctx context.Context, email, username string) (bool, error) {
	const op = "storage.UserExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(
				  SELECT 1 FROM users WHERE email = $1 OR username = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AdminExists сообщает, есть ли администратор с таким email или username.
func (s *Storage) AdminExists(ctx context.Context, email, username string) (bool, error) {
	const op = "storage.AdminExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(
				  SELECT 1 FROM users
				  WHERE (email = $1 OR username = $2) AND role = 'admin'
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListAdmins возвращает каталог администраторов: только username и email.
func (s *Storage) ListAdmins(ctx context.Context) ([]*models.AdminInfo, error) {
	const op = "storage.ListAdmins"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, email
			  FROM users
			  WHERE role = 'admin'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AdminInfo
	for rows.Next() {
		var a models.AdminInfo
		if err := rows.Scan(&a.Username, &a.Email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

const userSelect = `SELECT uid, email, username, password_hash, role, created_at, updated_at
					FROM users`

func scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
