// Package datefmt форматирует даты в том виде, в котором их отдаёт API:
// "DD/MM/YYYY, hh:mm AM/PM". Это контракт внешнего интерфейса, а не
// внутреннее представление — в хранилище и бизнес-логике даты
// остаются time.Time.
package datefmt

import "time"

// Layout — формат дат во всех ответах API.
const Layout = "02/01/2006, 03:04 PM"

// Format возвращает дату в формате Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatPtr форматирует опциональную дату.
//
// Возвращает nil для nil-даты, чтобы в JSON попадал null, а не пустая строка.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(Layout)
	return &s
}
