package models

import "time"

// PaymentStatus статус платежа.
type PaymentStatus string

const (
	// PaymentPending — платёж создан, но не завершён
	PaymentPending PaymentStatus = "PENDING"
	// PaymentCompleted — платёж успешно завершён
	PaymentCompleted PaymentStatus = "COMPLETED"
	// PaymentFailed — платёж не прошёл
	PaymentFailed PaymentStatus = "FAILED"
	// PaymentRefunded — платёж возвращён
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment связывает пользователя и, опционально, абонемент с суммой платежа.
// Механика платёжного шлюза находится вне этого сервиса.
type Payment struct {
	ID           string        // Уникальный идентификатор платежа
	UserUID      string        // Плательщик
	MembershipID *string       // Оплаченный абонемент (nil для разовых оплат)
	Amount       float64       // Сумма
	Status       PaymentStatus // Текущий статус
	CreatedAt    time.Time     // Дата создания
}
