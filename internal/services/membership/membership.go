// Package services содержит бизнес-логику для управления абонементами,
// тарифными планами и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/lib/timeutil"
	"github.com/magabrotheeeer/gym-crm/internal/metrics"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/storage/repository"
)

// ErrInvalidInput помечает ошибки разбора и согласованности входных данных,
// которые обработчик должен вернуть клиенту, а не как ошибку сервера.
var ErrInvalidInput = errors.New("invalid input")

// PlanPrices фиксированная таблица цен тарифных планов.
// Цена при смене типа берётся только отсюда, клиентская цена игнорируется.
var PlanPrices = map[models.MembershipType]float64{
	models.MembershipBasic:     49.99,
	models.MembershipPremium:   89.99,
	models.MembershipUnlimited: 129.99,
}

// MembershipRepository определяет методы для работы с абонементами в хранилище.
type MembershipRepository interface {
	// CreateMembership добавляет новый абонемент и возвращает его ID.
	CreateMembership(ctx context.Context, m models.Membership) (string, error)
	// GetMembership возвращает абонемент по ID.
	GetMembership(ctx context.Context, id string) (*models.Membership, error)
	// GetActiveMembership возвращает самый свежий действующий абонемент пользователя.
	GetActiveMembership(ctx context.Context, userUID string) (*models.Membership, error)
	// ListUserMemberships возвращает все абонементы пользователя.
	ListUserMemberships(ctx context.Context, userUID string) ([]*models.Membership, error)
	// ListAllMemberships возвращает все абонементы с пагинацией.
	ListAllMemberships(ctx context.Context, limit, offset int) ([]*models.Membership, error)
	// CountMemberships подсчитывает все абонементы.
	CountMemberships(ctx context.Context) (int, error)
	// UpdateMembership обновляет непустые поля абонемента.
	UpdateMembership(ctx context.Context, id string, mType *models.MembershipType, status *models.MembershipStatus, startDate, endDate *time.Time, price *float64) (int, error)
	// RenewMembership продлевает абонемент на указанное число месяцев.
	RenewMembership(ctx context.Context, id string, months int) (*models.Membership, error)
	// ChangeMembershipType меняет тип абонемента и цену.
	ChangeMembershipType(ctx context.Context, id string, newType models.MembershipType, price float64) (*models.Membership, error)
	// CancelMembership отменяет абонемент, дата окончания становится текущей.
	CancelMembership(ctx context.Context, id string) (*models.Membership, error)
	// FreezeMembership сдвигает дату окончания на длительность заморозки.
	FreezeMembership(ctx context.Context, id string, freezeUntil time.Time) (*models.Membership, error)
	// ExpireDueMemberships переводит просроченные абонементы в EXPIRED.
	ExpireDueMemberships(ctx context.Context) ([]*models.MembershipExpiryInfo, error)
	// GetMembershipStats возвращает сводную статистику по абонементам.
	GetMembershipStats(ctx context.Context) (*models.MembershipStats, error)
	// CreatePayment сохраняет платёж и возвращает его ID.
	CreatePayment(ctx context.Context, p models.Payment) (string, error)
	// ListMembershipPayments возвращает платежи по абонементу.
	ListMembershipPayments(ctx context.Context, membershipID string) ([]*models.Payment, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// MembershipService реализует бизнес-логику работы с абонементами.
type MembershipService struct {
	repo  MembershipRepository
	cache Cache
	log   *slog.Logger
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(repo MembershipRepository, cache Cache, log *slog.Logger) *MembershipService {
	return &MembershipService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Plans возвращает фиксированный список тарифных планов.
func (s *MembershipService) Plans() []models.Plan {
	return []models.Plan{
		{Type: models.MembershipBasic, Price: PlanPrices[models.MembershipBasic]},
		{Type: models.MembershipPremium, Price: PlanPrices[models.MembershipPremium]},
		{Type: models.MembershipUnlimited, Price: PlanPrices[models.MembershipUnlimited]},
	}
}

// Create оформляет новый абонемент и записывает платёж на его цену.
// Абонемент всегда создаётся в статусе ACTIVE.
func (s *MembershipService) Create(ctx context.Context, req models.DummyMembership) (string, error) {
	mType := models.MembershipType(req.Type)
	if !mType.Valid() {
		return "", fmt.Errorf("%w: unknown membership type %s", ErrInvalidInput, req.Type)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return "", fmt.Errorf("%w: invalid start date", ErrInvalidInput)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return "", fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	if !endDate.After(startDate) {
		return "", fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	membership := models.Membership{
		UserUID:   req.UserUID,
		Type:      mType,
		Status:    models.MembershipActive,
		StartDate: startDate,
		EndDate:   endDate,
		Price:     req.Price,
	}

	id, err := s.repo.CreateMembership(ctx, membership)
	if err != nil {
		return "", err
	}
	s.log.Info("created new membership", slog.String("id", id))

	payment := models.Payment{
		UserUID:      req.UserUID,
		MembershipID: &id,
		Amount:       req.Price,
		Status:       models.PaymentCompleted,
	}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		s.log.Warn("failed to record membership payment", slog.String("membership_id", id), slog.Any("err", err))
	}

	membership.ID = id
	cacheKey := fmt.Sprintf("membership:%s", id)
	if err := s.cache.Set(cacheKey, membership, time.Hour); err != nil {
		s.log.Warn("failed to cache membership", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает абонемент с историей платежей.
func (s *MembershipService) Read(ctx context.Context, id string) (*models.MembershipDetails, error) {
	var membership *models.Membership
	cacheKey := fmt.Sprintf("membership:%s", id)
	found, err := s.cache.Get(cacheKey, &membership)
	if err != nil {
		return nil, err
	}
	if !found {
		membership, err = s.repo.GetMembership(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, membership, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	payments, err := s.repo.ListMembershipPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.MembershipDetails{
		Membership: membership,
		Payments:   payments,
	}, nil
}

// Update обновляет непустые поля абонемента и инвалидирует кеш.
func (s *MembershipService) Update(ctx context.Context, id string, req models.DummyMembershipUpdate) (int, error) {
	var mType *models.MembershipType
	if req.Type != "" {
		t := models.MembershipType(req.Type)
		if !t.Valid() {
			return 0, fmt.Errorf("%w: unknown membership type %s", ErrInvalidInput, req.Type)
		}
		mType = &t
	}

	var status *models.MembershipStatus
	if req.Status != "" {
		st := models.MembershipStatus(req.Status)
		if !st.Valid() {
			return 0, fmt.Errorf("%w: unknown membership status %s", ErrInvalidInput, req.Status)
		}
		status = &st
	}

	var startDate, endDate *time.Time
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid start date", ErrInvalidInput)
		}
		startDate = &t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid end date", ErrInvalidInput)
		}
		endDate = &t
	}
	if startDate != nil && endDate != nil && !endDate.After(*startDate) {
		return 0, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	var price *float64
	if req.Price > 0 {
		price = &req.Price
	}

	res, err := s.repo.UpdateMembership(ctx, id, mType, status, startDate, endDate, price)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated membership in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("membership:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// Renew продлевает абонемент на указанное число календарных месяцев.
// Продление всегда считается от текущей даты окончания и возвращает
// абонемент в статус ACTIVE.
func (s *MembershipService) Renew(ctx context.Context, id string, months int) (*models.Membership, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: months must be positive", ErrInvalidInput)
	}

	membership, err := s.repo.RenewMembership(ctx, id, months)
	if err != nil {
		return nil, err
	}
	s.log.Info("renewed membership", slog.String("id", id), slog.Int("months", months))

	payment := models.Payment{
		UserUID:      membership.UserUID,
		MembershipID: &membership.ID,
		Amount:       membership.Price,
		Status:       models.PaymentCompleted,
	}
	if _, err := s.repo.CreatePayment(ctx, payment); err != nil {
		s.log.Warn("failed to record renewal payment", slog.String("membership_id", id), slog.Any("err", err))
	}

	s.refreshCache(membership)
	return membership, nil
}

// ChangeType меняет тип абонемента. Цена берётся из фиксированной таблицы планов.
func (s *MembershipService) ChangeType(ctx context.Context, id, newType string) (*models.Membership, error) {
	mType := models.MembershipType(newType)
	price, ok := PlanPrices[mType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown membership type %s", ErrInvalidInput, newType)
	}

	membership, err := s.repo.ChangeMembershipType(ctx, id, mType, price)
	if err != nil {
		return nil, err
	}
	s.log.Info("changed membership type", slog.String("id", id), slog.String("type", newType))

	s.refreshCache(membership)
	return membership, nil
}

// Cancel отменяет абонемент. Дата окончания становится текущим моментом.
func (s *MembershipService) Cancel(ctx context.Context, id string) (*models.Membership, error) {
	membership, err := s.repo.CancelMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("cancelled membership", slog.String("id", id))

	s.refreshCache(membership)
	return membership, nil
}

// Freeze сдвигает дату окончания абонемента вперёд на длительность заморозки,
// не меняя статус. Заморозка в прошлое укорачивает абонемент.
func (s *MembershipService) Freeze(ctx context.Context, id, freezeUntilStr string) (*models.Membership, error) {
	freezeUntil, err := parseDate(freezeUntilStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid freeze date", ErrInvalidInput)
	}

	membership, err := s.repo.FreezeMembership(ctx, id, freezeUntil)
	if err != nil {
		return nil, err
	}
	s.log.Info("froze membership", slog.String("id", id),
		slog.Time("freeze_until", freezeUntil))

	s.refreshCache(membership)
	return membership, nil
}

// Active возвращает самый свежий действующий абонемент пользователя.
func (s *MembershipService) Active(ctx context.Context, userUID string) (*models.Membership, error) {
	return s.repo.GetActiveMembership(ctx, userUID)
}

// HasActive сообщает, есть ли у пользователя действующий абонемент.
func (s *MembershipService) HasActive(ctx context.Context, userUID string) (bool, error) {
	_, err := s.repo.GetActiveMembership(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemainingDays возвращает число оставшихся дней действующего абонемента,
// округлённое вверх. Без действующего абонемента возвращает ноль.
func (s *MembershipService) RemainingDays(ctx context.Context, userUID string) (int, error) {
	membership, err := s.repo.GetActiveMembership(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return timeutil.RemainingDays(time.Now(), membership.EndDate), nil
}

// ListByUser возвращает все абонементы пользователя.
func (s *MembershipService) ListByUser(ctx context.Context, userUID string) ([]*models.Membership, error) {
	return s.repo.ListUserMemberships(ctx, userUID)
}

// ListAll возвращает все абонементы с пагинацией и общим числом для метаданных ответа.
func (s *MembershipService) ListAll(ctx context.Context, limit, offset int) ([]*models.Membership, int, error) {
	memberships, err := s.repo.ListAllMemberships(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountMemberships(ctx)
	if err != nil {
		return nil, 0, err
	}
	return memberships, total, nil
}

// ProcessExpired переводит все просроченные абонементы в EXPIRED
// и возвращает число обработанных.
func (s *MembershipService) ProcessExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireDueMemberships(ctx)
	if err != nil {
		return 0, err
	}
	metrics.MembershipsExpired.Add(float64(len(expired)))
	return len(expired), nil
}

// Stats возвращает сводную статистику по абонементам.
func (s *MembershipService) Stats(ctx context.Context) (*models.MembershipStats, error) {
	return s.repo.GetMembershipStats(ctx)
}

func (s *MembershipService) refreshCache(membership *models.Membership) {
	cacheKey := fmt.Sprintf("membership:%s", membership.ID)
	if err := s.cache.Set(cacheKey, membership, time.Hour); err != nil {
		s.log.Warn("failed to cache membership", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
