// Package auth содержит бизнес-логику регистрации, входа и проверки
// bearer-токенов для пользователей и администраторов.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/growthx/assignment-portal/internal/lib/jwt"
	"github.com/growthx/assignment-portal/internal/lib/password"
	"github.com/growthx/assignment-portal/internal/models"
)

// Ошибки бизнес-уровня. Gateway отображает их в HTTP-статусы.
var (
	// ErrUserExists — дубликат email или username среди всех пользователей.
	ErrUserExists = errors.New("user already exists with this email or username")
	// ErrAdminExists — дубликат email или username среди администраторов.
	ErrAdminExists = errors.New("admin already exists")
	// ErrInvalidCredentials — неверная пара email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid — токен не прошёл проверку подписи или истёк.
	ErrTokenInvalid = errors.New("token is not valid")
	// ErrUserNotFound — токен валиден, но identity в хранилище уже нет.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, email, username string) (bool, error)
	AdminExists(ctx context.Context, email, username string) (bool, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр AuthService.
func New(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// RegisterUser создаёт пользователя с ролью user и сразу выдаёт токен.
//
// Роль назначается здесь и никогда не берётся из запроса. Дубликаты email
// и username проверяются среди всех учётных записей независимо от роли.
func (s *AuthService) RegisterUser(ctx context.Context, email, username, rawPassword string) (*models.User, string, error) {
	const op = "auth.RegisterUser"

	exists, err := s.users.UserExists(ctx, email, username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	return s.register(ctx, email, username, rawPassword, models.RoleUser)
}

// RegisterAdmin создаёт администратора. Дубликаты проверяются только среди
// администраторов: администратор может переиспользовать email обычного
// пользователя.
func (s *AuthService) RegisterAdmin(ctx context.Context, email, username, rawPassword string) (*models.User, string, error) {
	const op = "auth.RegisterAdmin"

	exists, err := s.users.AdminExists(ctx, email, username)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, "", ErrAdminExists
	}

	return s.register(ctx, email, username, rawPassword, models.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, email, username, rawPassword, role string) (*models.User, string, error) {
	const op = "auth.register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// LoginUser проверяет пароль и выдаёт токен. Поиск идёт по email без фильтра
// по роли — администратор может войти и через пользовательский эндпоинт.
func (s *AuthService) LoginUser(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	return s.login(user, err, rawPassword)
}

// LoginAdmin проверяет пароль администратора (поиск с фильтром role=admin).
func (s *AuthService) LoginAdmin(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	admin, err := s.users.GetAdminByEmail(ctx, email)
	return s.login(admin, err, rawPassword)
}

func (s *AuthService) login(user *models.User, lookupErr error, rawPassword string) (*models.User, string, error) {
	const op = "auth.login"

	if lookupErr != nil {
		if errors.Is(lookupErr, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, lookupErr)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Authenticate проверяет bearer-токен и возвращает привязанную identity.
//
// Identity перечитывается из хранилища: валидный токен удалённого
// пользователя даёт ErrUserNotFound, а не ErrTokenInvalid.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
