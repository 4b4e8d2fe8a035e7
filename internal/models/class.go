package models

import "time"

// Class представляет занятие, на которое можно записаться.
// Занятие принадлежит одному тренеру; вместимость ограничена MaxCapacity.
type Class struct {
	ID              string    // Уникальный идентификатор занятия
	Name            string    // Название
	Description     string    // Описание
	DurationMinutes int       // Длительность в минутах
	MaxCapacity     int       // Максимальное количество одновременных броней
	Price           float64   // Стоимость разового посещения
	InstructorUID   string    // Тренер, ведущий занятие
	IsActive        bool      // Признак активного занятия
	CreatedAt       time.Time // Дата создания
}

// ClassSchedule описывает повторяющийся недельный слот занятия.
// Слот носит справочный характер и сам по себе не бронируется.
type ClassSchedule struct {
	ID        string // Уникальный идентификатор слота
	ClassID   string // Занятие, к которому относится слот
	DayOfWeek int    // День недели, 0 (воскресенье) — 6 (суббота)
	StartTime string // Время начала, формат HH:MM
	EndTime   string // Время окончания, формат HH:MM
}
