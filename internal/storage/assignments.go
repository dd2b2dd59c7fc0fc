package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/growthx/assignment-portal/internal/models"
)

// CreateAssignment вставляет новое задание со статусом pending и возвращает
// его id и момент загрузки, выставленный базой.
func (s *Storage) CreateAssignment(ctx context.Context, a models.Assignment) (*models.Assignment, error) {
	const op = "storage.CreateAssignment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO assignments (user_uid, admin_uid, task, remark, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, submitted_at`
	if err := s.DB.QueryRowContext(ctx, query,
		a.UserUID, a.AdminUID, a.Task, a.Remark, a.Status).
		Scan(&a.ID, &a.SubmittedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

// GetAssignmentView возвращает задание по id вместе с username отправителя
// и администратора (денормализованное представление для ответов API).
func (s *Storage) GetAssignmentView(ctx context.Context, id string) (*models.AssignmentView, error) {
	const op = "storage.GetAssignmentView"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := assignmentViewSelect + ` WHERE a.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	view, err := scanAssignmentView(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

// ListAssignmentsByAdmin возвращает все задания, адресованные администратору.
// Порядок не задаётся — как отдаст база.
func (s *Storage) ListAssignmentsByAdmin(ctx context.Context, adminUID string) ([]*models.AssignmentView, error) {
	const op = "storage.ListAssignmentsByAdmin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := assignmentViewSelect + ` WHERE a.admin_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, adminUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AssignmentView
	for rows.Next() {
		view, err := scanAssignmentView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, view)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAssignmentReview применяет решение администратора одним запросом:
// статус, комментарий и парные терминальные даты записываются атомарно.
//
// remark == nil означает, что поле отсутствовало в запросе — колонка
// остаётся нетронутой. reviewedAt передаётся только на пути accept.
// Возвращает admin_uid обновлённого задания; sql.ErrNoRows — задания нет.
func (s *Storage) UpdateAssignmentReview(ctx context.Context, id, status string,
	remark *string, acceptedAt, rejectedAt, reviewedAt *time.Time) (string, error) {
	const op = "storage.UpdateAssignmentReview"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE assignments
			  SET status = $2,
			      remark = COALESCE($3, remark),
			      accepted_at = $4,
			      rejected_at = $5,
			      reviewed_at = COALESCE($6, reviewed_at)
			  WHERE id = $1
			  RETURNING admin_uid`
	var adminUID string
	if err := s.DB.QueryRowContext(ctx, query,
		id, status, remark, acceptedAt, rejectedAt, reviewedAt).Scan(&adminUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return adminUID, nil
}

const assignmentViewSelect = `
	SELECT a.id, u.username, adm.username, a.task, a.remark, a.status,
	       a.submitted_at, a.accepted_at, a.rejected_at
	FROM assignments a
	JOIN users u ON u.uid = a.user_uid
	JOIN users adm ON adm.uid = a.admin_uid`

func scanAssignmentView(scan func(dest ...any) error) (*models.AssignmentView, error) {
	var v models.AssignmentView
	var acceptedAt, rejectedAt sql.NullTime
	if err := scan(&v.ID, &v.User, &v.Admin, &v.Task, &v.Remark, &v.Status,
		&v.SubmittedAt, &acceptedAt, &rejectedAt); err != nil {
		return nil, err
	}
	if acceptedAt.Valid {
		v.AcceptedAt = &acceptedAt.Time
	}
	if rejectedAt.Valid {
		v.RejectedAt = &rejectedAt.Time
	}
	return &v, nil
}
