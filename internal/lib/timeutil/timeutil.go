// Package timeutil содержит вспомогательные функции для работы с границами
// календарных периодов и подсчётом остатка дней абонемента.
package timeutil

import (
	"math"
	"time"
)

// StartOfDay возвращает полночь дня, в который попадает t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek возвращает полночь воскресенья недели, в которую попадает t.
// Неделя начинается с воскресенья.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth возвращает полночь первого числа месяца, в который попадает t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// RemainingDays считает число дней от now до end, округляя вверх.
// Для end в прошлом возвращает 0.
func RemainingDays(now, end time.Time) int {
	diff := end.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
