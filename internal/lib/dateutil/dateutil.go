// Package dateutil содержит вспомогательные функции для работы с датами
// без компонента времени суток. Все сравнения дат донации и восстановления
// доноров выполняются по усечённым значениям.
package dateutil

import "time"

// Layout — формат дат во входных JSON-запросах.
const Layout = "2006-01-02"

// Truncate усекает момент времени до даты в UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today возвращает текущую дату в UTC без времени суток.
func Today() time.Time {
	return Truncate(time.Now().UTC())
}

// ParseDate парсит дату в формате Layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// FormatDate форматирует дату в формат Layout.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}
