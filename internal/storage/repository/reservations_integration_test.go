package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

func TestStorage_CreateReservation(t *testing.T) {
	windowStart := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC)

	t.Run("успешное создание брони", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)

		id, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       userUID,
			ClassID:       classID,
			InstructorUID: instructorUID,
			StartTime:     windowStart,
			EndTime:       windowEnd,
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		verify := NewTestVerification(storage)
		verify.VerifyReservationStatus(t, id, "PENDING")
	})

	t.Run("пересечение с существующей бронью пользователя", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)
		otherClassID := factory.CreateClass(t, "Pilates", 10, instructorUID, true)

		factory.CreateReservationRow(t, userUID, classID, instructorUID, windowStart, windowEnd, "CONFIRMED")

		// Окно пересекается частично, занятие другое: конфликт по пользователю.
		_, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       userUID,
			ClassID:       otherClassID,
			InstructorUID: instructorUID,
			StartTime:     windowStart.Add(30 * time.Minute),
			EndTime:       windowEnd.Add(30 * time.Minute),
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("смежные окна не пересекаются", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)

		factory.CreateReservationRow(t, userUID, classID, instructorUID, windowStart, windowEnd, "CONFIRMED")

		// Интервалы полуоткрытые: старт нового ровно в конец старого.
		_, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       userUID,
			ClassID:       classID,
			InstructorUID: instructorUID,
			StartTime:     windowEnd,
			EndTime:       windowEnd.Add(time.Hour),
		})
		require.NoError(t, err)
	})

	t.Run("занятие заполнено", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		firstUID := factory.CreateUser(t, "First", "first@example.com", "client", true)
		secondUID := factory.CreateUser(t, "Second", "second@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 1, instructorUID, true)

		factory.CreateReservationRow(t, firstUID, classID, instructorUID, windowStart, windowEnd, "CONFIRMED")

		_, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       secondUID,
			ClassID:       classID,
			InstructorUID: instructorUID,
			StartTime:     windowStart,
			EndTime:       windowEnd,
		})
		require.ErrorIs(t, err, ErrCapacityFull)
	})

	t.Run("отменённая бронь освобождает место", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		firstUID := factory.CreateUser(t, "First", "first@example.com", "client", true)
		secondUID := factory.CreateUser(t, "Second", "second@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 1, instructorUID, true)

		resID := factory.CreateReservationRow(t, firstUID, classID, instructorUID, windowStart, windowEnd, "CONFIRMED")

		count, err := storage.CancelReservation(context.Background(), resID, nil)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		_, err = storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       secondUID,
			ClassID:       classID,
			InstructorUID: instructorUID,
			StartTime:     windowStart,
			EndTime:       windowEnd,
		})
		require.NoError(t, err)
	})

	t.Run("несуществующее занятие", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)

		_, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       userUID,
			ClassID:       NewTestUUID(),
			InstructorUID: instructorUID,
			StartTime:     windowStart,
			EndTime:       windowEnd,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("неактивное занятие", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, false)

		_, err := storage.CreateReservation(context.Background(), models.Reservation{
			UserUID:       userUID,
			ClassID:       classID,
			InstructorUID: instructorUID,
			StartTime:     windowStart,
			EndTime:       windowEnd,
		})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_CreateReservation_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	windowStart := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC)

	factory := NewTestDataFactory(storage)
	instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
	classID := factory.CreateClass(t, "Yoga", 1, instructorUID, true)

	const workers = 5
	users := make([]string, workers)
	for i := range workers {
		users[i] = factory.CreateUser(t, "Client", fmt.Sprintf("client%d@example.com", i), "client", true)
	}

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = storage.CreateReservation(context.Background(), models.Reservation{
				UserUID:       users[i],
				ClassID:       classID,
				InstructorUID: instructorUID,
				StartTime:     windowStart,
				EndTime:       windowEnd,
			})
		}(i)
	}
	wg.Wait()

	// Блокировка строки занятия пропускает ровно одну бронь при вместимости 1.
	var succeeded, full int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCapacityFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, full)
}

func TestStorage_CancelReservation(t *testing.T) {
	windowStart := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC)

	t.Run("владелец отменяет свою бронь", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		userUID := factory.CreateUser(t, "Client", "client@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)
		resID := factory.CreateReservationRow(t, userUID, classID, instructorUID, windowStart, windowEnd, "PENDING")

		count, err := storage.CancelReservation(context.Background(), resID, &userUID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		verify := NewTestVerification(storage)
		verify.VerifyReservationStatus(t, resID, "CANCELLED")
	})

	t.Run("чужая бронь не отменяется", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
		ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "client", true)
		otherUID := factory.CreateUser(t, "Other", "other@example.com", "client", true)
		classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)
		resID := factory.CreateReservationRow(t, ownerUID, classID, instructorUID, windowStart, windowEnd, "PENDING")

		count, err := storage.CancelReservation(context.Background(), resID, &otherUID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		verify := NewTestVerification(storage)
		verify.VerifyReservationStatus(t, resID, "PENDING")
	})
}

func TestStorage_CountOverlappingReservations(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	windowStart := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 1, 10, 11, 0, 0, 0, time.UTC)

	factory := NewTestDataFactory(storage)
	instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
	firstUID := factory.CreateUser(t, "First", "first@example.com", "client", true)
	secondUID := factory.CreateUser(t, "Second", "second@example.com", "client", true)
	thirdUID := factory.CreateUser(t, "Third", "third@example.com", "client", true)
	classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)

	factory.CreateReservationRow(t, firstUID, classID, instructorUID, windowStart, windowEnd, "CONFIRMED")
	factory.CreateReservationRow(t, secondUID, classID, instructorUID, windowStart.Add(30*time.Minute), windowEnd.Add(30*time.Minute), "PENDING")
	// Отменённые брони не занимают место.
	factory.CreateReservationRow(t, thirdUID, classID, instructorUID, windowStart, windowEnd, "CANCELLED")

	count, err := storage.CountOverlappingReservations(context.Background(), classID, windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStorage_ListClassSchedules(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	instructorUID := factory.CreateUser(t, "Trainer", "trainer@example.com", "instructor", true)
	classID := factory.CreateClass(t, "Yoga", 10, instructorUID, true)
	otherClassID := factory.CreateClass(t, "Pilates", 10, instructorUID, true)

	factory.CreateClassSchedule(t, classID, 1, "10:00", "11:00")
	factory.CreateClassSchedule(t, classID, 3, "18:00", "19:00")
	factory.CreateClassSchedule(t, otherClassID, 5, "09:00", "10:00")

	got, err := storage.ListClassSchedules(context.Background(), classID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
