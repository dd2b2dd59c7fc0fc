// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков. Контракт ответов: успех —
// {"success":true, ...}, ошибка — {"success":false, "message": "..."}.
package response

import (
	"fmt"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON-ответа сервера.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error возвращает Response с success=false и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

// OK возвращает Response с success=true и переданным сообщением.
func OK(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

// ValidationError формирует Response по первой ошибке валидации.
// Проверки полей вычисляются жадно, наружу уходит только первое нарушение.
func ValidationError(errs validator.ValidationErrors) Response {
	if len(errs) == 0 {
		return Error("validation failed")
	}

	err := errs[0]
	var msg string
	switch err.ActualTag() {
	case "required":
		msg = fmt.Sprintf("field %s is a required field", err.Field())
	case "email":
		msg = fmt.Sprintf("field %s must be a valid email", err.Field())
	case "min":
		msg = fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
	case "max":
		msg = fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param())
	case "oneof":
		msg = fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param())
	default:
		msg = fmt.Sprintf("field %s is not a valid", err.Field())
	}
	return Error(msg)
}
