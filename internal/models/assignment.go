package models

import "time"

// Статусы задания. Начальный статус — pending; accept и reject
// перезаписывают друг друга без ограничений (терминального состояния нет).
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Assignment — задание, загруженное пользователем конкретному администратору.
//
// Инвариант терминальных дат: AcceptedAt != nil тогда и только тогда, когда
// Status == accepted; RejectedAt != nil тогда и только тогда, когда
// Status == rejected. Каждый переход статуса атомарно выставляет свою дату
// и обнуляет противоположную.
type Assignment struct {
	ID          string
	UserUID     string // Владелец-отправитель (role=user)
	AdminUID    string // Проверяющий администратор (role=admin)
	Task        string // Текст задания, до 1000 символов
	Remark      string // Комментарий проверяющего, до 100 символов
	Status      string
	SubmittedAt time.Time  // Выставляется при создании, неизменяемая
	AcceptedAt  *time.Time
	RejectedAt  *time.Time
	ReviewedAt  *time.Time // Выставляется только на пути accept
}

// DummyAssignment используется для приёма данных из JSON-запроса загрузки
// задания, прежде чем конвертировать их в Assignment.
//
// Поле User обязано совпадать с username аутентифицированного отправителя.
type DummyAssignment struct {
	User   string `json:"user" validate:"required"`
	Admin  string `json:"admin" validate:"required"`
	Task   string `json:"task" validate:"required,max=1000"`
	Remark string `json:"remark" validate:"omitempty,max=100"`
}

// AssignmentView — денормализованное представление задания для ответов API:
// вместо uid подставлены username отправителя и администратора.
// Представление нигде не хранится, собирается запросом с JOIN.
type AssignmentView struct {
	ID          string
	User        string
	Admin       string
	Task        string
	Remark      string
	Status      string
	SubmittedAt time.Time
	AcceptedAt  *time.Time
	RejectedAt  *time.Time
}
