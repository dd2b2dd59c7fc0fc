// Package assignment содержит бизнес-логику жизненного цикла заданий:
// загрузку пользователем, листинг для администратора и переходы статуса
// accept/reject с парными терминальными датами.
package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/growthx/assignment-portal/internal/lib/sl"
	"github.com/growthx/assignment-portal/internal/models"
)

// Ошибки бизнес-уровня. Gateway отображает их в HTTP-статусы.
var (
	// ErrAdminNotFound — адресат задания не является администратором.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrUserNotFound — заявленный отправитель не найден среди пользователей.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner — отправитель пытается загрузить задание от чужого имени.
	ErrNotOwner = errors.New("you can only upload assignments for yourself")
	// ErrAssignmentNotFound — задания с таким id нет.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// AssignmentRepository определяет методы для работы с заданиями в хранилище.
type AssignmentRepository interface {
	// CreateAssignment добавляет задание и возвращает его с id и submitted_at.
	CreateAssignment(ctx context.Context, a models.Assignment) (*models.Assignment, error)
	// GetAssignmentView возвращает задание по id с username участников.
	GetAssignmentView(ctx context.Context, id string) (*models.AssignmentView, error)
	// ListAssignmentsByAdmin возвращает все задания, адресованные администратору.
	ListAssignmentsByAdmin(ctx context.Context, adminUID string) ([]*models.AssignmentView, error)
	// UpdateAssignmentReview записывает решение и возвращает admin_uid задания.
	UpdateAssignmentReview(ctx context.Context, id, status string, remark *string,
		acceptedAt, rejectedAt, reviewedAt *time.Time) (string, error)
}

// UserDirectory — срез хранилища пользователей, нужный жизненному циклу.
type UserDirectory interface {
	GetUserByUsernameAndRole(ctx context.Context, username, role string) (*models.User, error)
	ListAdmins(ctx context.Context) ([]*models.AdminInfo, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику жизненного цикла заданий.
type Service struct {
	repo  AssignmentRepository
	users UserDirectory
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo AssignmentRepository, users UserDirectory, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

const adminsCacheKey = "admins:directory"

func adminAssignmentsCacheKey(adminUID string) string {
	return fmt.Sprintf("assignments:admin:%s", adminUID)
}

// Upload создаёт задание со статусом pending от имени callerUsername.
//
// Порядок проверок фиксирован: сначала резолвится администратор-адресат,
// затем сверяется имя отправителя, затем отправитель перечитывается из
// хранилища по username — даже при уже аутентифицированном вызове.
// Несовпадение имени даёт ErrNotOwner независимо от остального тела.
func (s *Service) Upload(ctx context.Context, callerUsername string, req models.DummyAssignment) (*models.AssignmentView, error) {
	const op = "assignment.Upload"

	adminUser, err := s.users.GetUserByUsernameAndRole(ctx, req.Admin, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if callerUsername != req.User {
		return nil, ErrNotOwner
	}

	userData, err := s.users.GetUserByUsernameAndRole(ctx, req.User, models.RoleUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateAssignment(ctx, models.Assignment{
		UserUID:  userData.UID,
		AdminUID: adminUser.UID,
		Task:     req.Task,
		Remark:   req.Remark,
		Status:   models.StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("assignment uploaded",
		slog.String("id", created.ID), slog.String("admin", adminUser.Username))

	if err := s.cache.Invalidate(adminAssignmentsCacheKey(adminUser.UID)); err != nil {
		s.log.Warn("failed to invalidate admin assignments cache", sl.Err(err))
	}

	return &models.AssignmentView{
		ID:          created.ID,
		User:        userData.Username,
		Admin:       adminUser.Username,
		Task:        created.Task,
		Remark:      created.Remark,
		Status:      created.Status,
		SubmittedAt: created.SubmittedAt,
	}, nil
}

// ListForAdmin возвращает задания, адресованные администратору adminUID.
//
// Терминальные даты проецируются по статусу: acceptedAt отдаётся только
// для accepted, rejectedAt — только для rejected, даже если в хранилище
// осталось несогласованное значение.
func (s *Service) ListForAdmin(ctx context.Context, adminUID string) ([]*models.AssignmentView, error) {
	const op = "assignment.ListForAdmin"

	cacheKey := adminAssignmentsCacheKey(adminUID)
	var cached []*models.AssignmentView
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read assignments cache", sl.Err(err))
	}
	if found {
		return projectTerminalDates(cached), nil
	}

	views, err := s.repo.ListAssignmentsByAdmin(ctx, adminUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, views, time.Hour); err != nil {
		s.log.Warn("failed to cache assignments", slog.String("key", cacheKey), sl.Err(err))
	}
	return projectTerminalDates(views), nil
}

// Review применяет решение администратора к заданию.
//
// Переход разрешён из любого состояния в любое: повторный accept или reject
// перезаписывает прежний терминальный статус и даты. Проверки, что вызывающий
// администратор совпадает с адресатом задания, нет — любое задание может
// проверить любой администратор.
func (s *Service) Review(ctx context.Context, id, status string, remark *string) (*models.AssignmentView, error) {
	const op = "assignment.Review"

	now := time.Now().UTC()
	var acceptedAt, rejectedAt, reviewedAt *time.Time
	switch status {
	case models.StatusAccepted:
		acceptedAt = &now
		reviewedAt = &now // reviewed_at выставляется только на пути accept
	case models.StatusRejected:
		rejectedAt = &now
	default:
		return nil, fmt.Errorf("%s: unsupported status %q", op, status)
	}

	adminUID, err := s.repo.UpdateAssignmentReview(ctx, id, status, remark, acceptedAt, rejectedAt, reviewedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("assignment reviewed", slog.String("id", id), slog.String("status", status))

	if err := s.cache.Invalidate(adminAssignmentsCacheKey(adminUID)); err != nil {
		s.log.Warn("failed to invalidate admin assignments cache", sl.Err(err))
	}

	view, err := s.repo.GetAssignmentView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return projectTerminalDates([]*models.AssignmentView{view})[0], nil
}

// ListAdmins возвращает каталог администраторов (username и email).
func (s *Service) ListAdmins(ctx context.Context) ([]*models.AdminInfo, error) {
	const op = "assignment.ListAdmins"

	var cached []*models.AdminInfo
	found, err := s.cache.Get(adminsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read admins cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(adminsCacheKey, admins, time.Minute); err != nil {
		s.log.Warn("failed to cache admins", sl.Err(err))
	}
	return admins, nil
}

func projectTerminalDates(views []*models.AssignmentView) []*models.AssignmentView {
	for _, v := range views {
		if v.Status != models.StatusAccepted {
			v.AcceptedAt = nil
		}
		if v.Status != models.StatusRejected {
			v.RejectedAt = nil
		}
	}
	return views
}
