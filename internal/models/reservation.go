package models

import "time"

// ReservationStatus статус брони.
type ReservationStatus string

const (
	// ReservationPending — бронь создана, но ещё не подтверждена
	ReservationPending ReservationStatus = "PENDING"
	// ReservationConfirmed — бронь подтверждена тренером или администратором
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	// ReservationCancelled — бронь отменена; терминальный статус
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Valid проверяет, что статус входит в список допустимых.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Reservation представляет бронь занятия пользователем на конкретный
// полуоткрытый интервал [StartTime, EndTime). Брони никогда не удаляются
// физически: отменённые остаются в истории.
type Reservation struct {
	ID            string            // Уникальный идентификатор брони
	UserUID       string            // Владелец брони
	ClassID       string            // Забронированное занятие
	InstructorUID string            // Тренер на время брони
	StartTime     time.Time         // Начало интервала
	EndTime       time.Time         // Конец интервала (не включается)
	Status        ReservationStatus // Текущий статус
	Notes         string            // Произвольная заметка клиента
	CreatedAt     time.Time         // Дата создания
}

// DummyReservation используется для приёма данных брони из JSON-запроса.
// Даты приходят строками в формате RFC3339 и парсятся в сервисе.
type DummyReservation struct {
	ClassID       string `json:"class_id" validate:"required,uuid"`
	InstructorUID string `json:"instructor_uid" validate:"required,uuid"`
	StartTime     string `json:"start_time" validate:"required"`
	EndTime       string `json:"end_time" validate:"required"`
	Notes         string `json:"notes,omitempty" validate:"omitempty"`
}

// DummyReservationUpdate используется для частичного обновления брони.
// Непустые поля заменяют текущие значения, пустые игнорируются.
type DummyReservationUpdate struct {
	StartTime string `json:"start_time,omitempty" validate:"omitempty"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty"`
	Status    string `json:"status,omitempty" validate:"omitempty"`
	Notes     string `json:"notes,omitempty" validate:"omitempty"`
}

// Availability результат проверки доступности занятия в окне времени.
type Availability struct {
	Available           bool `json:"available"`
	CurrentReservations int  `json:"current_reservations"`
	MaxCapacity         int  `json:"max_capacity"`
}

// ReservationStats сводная статистика по броням.
type ReservationStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}
