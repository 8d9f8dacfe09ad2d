package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// MockEntryRepository is an in-memory mock implementation of
// usecase.EntryRepository. Behavior can be overridden per call through the
// exported Func fields.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc          func(ctx context.Context, id, ownerID string) (*domain.Entry, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Entry, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id, ownerID string) error
	ListFunc             func(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]*domain.Entry, error)
	ListSettlementsFunc  func(ctx context.Context, tx usecase.Transaction, settlesEntryID, ownerID string) ([]*domain.Entry, error)
	ClearPartyFunc       func(ctx context.Context, tx usecase.Transaction, partyID, ownerID string) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{entries: make(map[string]*domain.Entry)}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *entry
	m.entries[entry.ID] = &copied

	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lookup(id, ownerID)
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id, ownerID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lookup(id, ownerID)
}

func (m *MockEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}

	copied := *entry
	m.entries[entry.ID] = &copied

	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || e.OwnerID != ownerID {
		return domain.ErrEntryNotFound
	}

	delete(m.entries, id)

	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, ownerID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, filter)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Entry
	for _, e := range m.entries {
		if e.OwnerID != ownerID {
			continue
		}

		if filter.From != nil && e.EntryDate.Before(*filter.From) {
			continue
		}

		if filter.To != nil && !e.EntryDate.Before(*filter.To) {
			continue
		}

		copied := *e
		result = append(result, &copied)
	}

	return result, nil
}

func (m *MockEntryRepository) ListSettlements(ctx context.Context, tx usecase.Transaction, settlesEntryID, ownerID string) ([]*domain.Entry, error) {
	if m.ListSettlementsFunc != nil {
		return m.ListSettlementsFunc(ctx, tx, settlesEntryID, ownerID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Entry
	for _, e := range m.entries {
		if e.OwnerID != ownerID || e.SettlesEntryID == nil || *e.SettlesEntryID != settlesEntryID {
			continue
		}

		copied := *e
		result = append(result, &copied)
	}

	return result, nil
}

func (m *MockEntryRepository) ClearParty(ctx context.Context, tx usecase.Transaction, partyID, ownerID string) error {
	if m.ClearPartyFunc != nil {
		return m.ClearPartyFunc(ctx, tx, partyID, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.OwnerID == ownerID && e.PartyID != nil && *e.PartyID == partyID {
			e.PartyID = nil
		}
	}

	return nil
}

// Get returns a stored entry without owner scoping, for test assertions.
func (m *MockEntryRepository) Get(id string) *domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil
	}

	copied := *e

	return &copied
}

// Count returns the number of stored entries.
func (m *MockEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *MockEntryRepository) lookup(id, ownerID string) (*domain.Entry, error) {
	e, ok := m.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domain.ErrEntryNotFound
	}

	copied := *e

	return &copied, nil
}

// MockBalanceRepository is an in-memory mock implementation of
// usecase.BalanceRepository with genuinely atomic increments.
type MockBalanceRepository struct {
	mu       sync.Mutex
	balances map[string]*domain.Balance

	GetFunc       func(ctx context.Context, ownerID string) (*domain.Balance, error)
	IncrementFunc func(ctx context.Context, tx usecase.Transaction, ownerID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	SetFunc       func(ctx context.Context, ownerID string, amount decimal.Decimal, updatedAt time.Time) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{balances: make(map[string]*domain.Balance)}
}

func (m *MockBalanceRepository) Get(ctx context.Context, ownerID string) (*domain.Balance, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.balances[ownerID]
	if !ok {
		return nil, domain.ErrBalanceNotFound
	}

	copied := *b

	return &copied, nil
}

func (m *MockBalanceRepository) Increment(ctx context.Context, tx usecase.Transaction, ownerID string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, tx, ownerID, delta, updatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.balances[ownerID]
	if !ok {
		b = &domain.Balance{OwnerID: ownerID, Amount: decimal.Zero}
		m.balances[ownerID] = b
	}

	b.Amount = b.Amount.Add(delta)
	b.UpdatedAt = updatedAt

	return b.Amount, nil
}

func (m *MockBalanceRepository) Set(ctx context.Context, ownerID string, amount decimal.Decimal, updatedAt time.Time) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, ownerID, amount, updatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[ownerID] = &domain.Balance{OwnerID: ownerID, Amount: amount, UpdatedAt: updatedAt}

	return nil
}

// MockPartyRepository is an in-memory mock implementation of
// usecase.PartyRepository.
type MockPartyRepository struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party

	CreateFunc  func(ctx context.Context, party *domain.Party) error
	GetByIDFunc func(ctx context.Context, id, ownerID string) (*domain.Party, error)
	ListFunc    func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error)
	DeleteFunc  func(ctx context.Context, tx usecase.Transaction, id, ownerID string) error
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{parties: make(map[string]*domain.Party)}
}

func (m *MockPartyRepository) Create(ctx context.Context, party *domain.Party) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, party)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *party
	m.parties[party.ID] = &copied

	return nil
}

func (m *MockPartyRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parties[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrPartyNotFound
	}

	copied := *p

	return &copied, nil
}

func (m *MockPartyRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Party
	for _, p := range m.parties {
		if p.OwnerID == ownerID {
			copied := *p
			result = append(result, &copied)
		}
	}

	return result, nil
}

func (m *MockPartyRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.parties[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrPartyNotFound
	}

	delete(m.parties, id)

	return nil
}

// MockAlertRepository is an in-memory mock implementation of
// usecase.AlertRepository.
type MockAlertRepository struct {
	mu     sync.RWMutex
	alerts []*domain.Alert

	CreateFunc  func(ctx context.Context, alert *domain.Alert) error
	ListFunc    func(ctx context.Context, ownerID string, includeDismissed bool, limit, offset int) ([]*domain.Alert, error)
	DismissFunc func(ctx context.Context, id, ownerID string, dismissedAt time.Time) error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{}
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, alert)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *alert
	m.alerts = append(m.alerts, &copied)

	return nil
}

func (m *MockAlertRepository) List(ctx context.Context, ownerID string, includeDismissed bool, limit, offset int) ([]*domain.Alert, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, includeDismissed, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*domain.Alert
	for _, a := range m.alerts {
		if a.OwnerID != ownerID {
			continue
		}

		if a.Dismissed && !includeDismissed {
			continue
		}

		copied := *a
		result = append(result, &copied)
	}

	return result, nil
}

func (m *MockAlertRepository) Dismiss(ctx context.Context, id, ownerID string, dismissedAt time.Time) error {
	if m.DismissFunc != nil {
		return m.DismissFunc(ctx, id, ownerID, dismissedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.alerts {
		if a.ID == id && a.OwnerID == ownerID {
			a.Dismissed = true

			return nil
		}
	}

	return domain.ErrAlertNotFound
}

// All returns every stored alert, for test assertions.
func (m *MockAlertRepository) All() []*domain.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Alert, len(m.alerts))
	for i, a := range m.alerts {
		copied := *a
		result[i] = &copied
	}

	return result
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}

	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}

	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++

	return "id-" + strconv.Itoa(m.next)
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct{}

func (MockRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockCache is an in-memory mock implementation of usecase.Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}
