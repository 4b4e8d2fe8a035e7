package models

import "time"

// MembershipType тип абонемента.
type MembershipType string

const (
	// MembershipBasic — базовый абонемент
	MembershipBasic MembershipType = "BASIC"
	// MembershipPremium — расширенный абонемент
	MembershipPremium MembershipType = "PREMIUM"
	// MembershipUnlimited — безлимитный абонемент
	MembershipUnlimited MembershipType = "UNLIMITED"
)

// Valid проверяет, что тип входит в список допустимых.
func (t MembershipType) Valid() bool {
	switch t {
	case MembershipBasic, MembershipPremium, MembershipUnlimited:
		return true
	}
	return false
}

// MembershipStatus статус абонемента.
type MembershipStatus string

const (
	// MembershipActive — действующий абонемент
	MembershipActive MembershipStatus = "ACTIVE"
	// MembershipExpired — срок действия истёк; терминальный статус
	MembershipExpired MembershipStatus = "EXPIRED"
	// MembershipCancelled — абонемент отменён; терминальный статус
	MembershipCancelled MembershipStatus = "CANCELLED"
)

// Valid проверяет, что статус входит в список допустимых.
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipActive, MembershipExpired, MembershipCancelled:
		return true
	}
	return false
}

// Membership представляет абонемент пользователя.
// Инвариант: EndDate всегда позже StartDate. Заморозка не меняет статус,
// а сдвигает EndDate вперёд на длительность заморозки.
type Membership struct {
	ID        string           // Уникальный идентификатор абонемента
	UserUID   string           // Владелец абонемента
	Type      MembershipType   // BASIC, PREMIUM или UNLIMITED
	Status    MembershipStatus // ACTIVE, EXPIRED или CANCELLED
	StartDate time.Time        // Начало действия
	EndDate   time.Time        // Окончание действия
	Price     float64          // Цена абонемента
	CreatedAt time.Time        // Дата оформления
}

// DummyMembership используется для приёма данных нового абонемента из JSON-запроса.
// Корректность порядка дат проверяется на границе запроса.
type DummyMembership struct {
	UserUID   string  `json:"user_uid" validate:"required,uuid"`
	Type      string  `json:"type" validate:"required"`
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// DummyMembershipUpdate используется для частичного обновления абонемента.
type DummyMembershipUpdate struct {
	Type      string  `json:"type,omitempty" validate:"omitempty"`
	Status    string  `json:"status,omitempty" validate:"omitempty"`
	StartDate string  `json:"start_date,omitempty" validate:"omitempty"`
	EndDate   string  `json:"end_date,omitempty" validate:"omitempty"`
	Price     float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

// MembershipDetails абонемент вместе с историей его платежей.
type MembershipDetails struct {
	*Membership
	Payments []*Payment `json:"payments"`
}

// Plan описывает тарифный план абонемента из фиксированной таблицы цен.
type Plan struct {
	Type  MembershipType `json:"type"`
	Price float64        `json:"price"`
}

// MembershipExpiryInfo данные об истёкшем абонементе для уведомления владельца.
type MembershipExpiryInfo struct {
	MembershipID string         `json:"membership_id"`
	Type         MembershipType `json:"type"`
	EndDate      time.Time      `json:"end_date"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
}

// MembershipStats сводная статистика по абонементам. Revenue — сумма цен
// действующих абонементов на момент запроса, не накопленная выручка.
type MembershipStats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Expired   int            `json:"expired"`
	Cancelled int            `json:"cancelled"`
	ByType    map[string]int `json:"by_type"`
	Revenue   float64        `json:"revenue"`
}
