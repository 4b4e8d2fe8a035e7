// Package repository реализует хранилище данных на основе PostgreSQL
// для управления пользователями, занятиями, бронями и абонементами.
// Предоставляет методы создания, чтения, обновления и агрегирования записей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки бизнес-уровня, которые хранилище возвращает вместо кодов БД.
// Обработчики сопоставляют их с HTTP-статусами через errors.Is.
var (
	// ErrNotFound — запись или связанная с ней сущность не найдена (либо неактивна).
	ErrNotFound = errors.New("not found")
	// ErrConflict — у пользователя уже есть бронь, пересекающаяся по времени.
	ErrConflict = errors.New("already booked for this time")
	// ErrCapacityFull — лимит вместимости занятия в этом окне исчерпан.
	ErrCapacityFull = errors.New("class is full")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с сущностями фитнес-клуба.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'reservations'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table reservations missing or query error: %w", err)
	}
	return nil
}
