package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal

	GetBalanceFunc             func(ctx context.Context, userID string) (decimal.Decimal, error)
	AvailableForWithdrawalFunc func(ctx context.Context, userID string) (decimal.Decimal, error)
	AdjustBalanceFunc          func(ctx context.Context, userID string, delta decimal.Decimal, reason string) (decimal.Decimal, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		balances: make(map[string]decimal.Decimal),
	}
}

func (m *MockWalletRepository) SetBalance(userID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if balance, ok := m.balances[userID]; ok {
		return balance, nil
	}
	return decimal.Zero, domain.ErrAccountNotFound
}

func (m *MockWalletRepository) AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.AvailableForWithdrawalFunc != nil {
		return m.AvailableForWithdrawalFunc(ctx, userID)
	}
	return m.GetBalance(ctx, userID)
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal, reason string) (decimal.Decimal, error) {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, userID, delta, reason)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[userID]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	newBalance := balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, domain.ErrNegativeBalanceNotAllowed
	}
	m.balances[userID] = newBalance
	return newBalance, nil
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository.
type MockWithdrawalRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.WithdrawalRequest

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, request *domain.WithdrawalRequest) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.WithdrawalRequest, error)
	ListByCreatorFunc func(ctx context.Context, creatorID string, status domain.WithdrawalStatus, limit, offset int) ([]*domain.WithdrawalRequest, error)
	ListPendingFunc   func(ctx context.Context, creatorID string) ([]*domain.WithdrawalRequest, error)
	CompleteFunc      func(ctx context.Context, id string, processedAt time.Time) error
	UpdateStatusFunc  func(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, processedAt *time.Time) error
}

func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{
		requests: make(map[string]*domain.WithdrawalRequest),
	}
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, tx usecase.Transaction, request *domain.WithdrawalRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, request)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
	return nil
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.WithdrawalRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if request, ok := m.requests[id]; ok {
		return request, nil
	}
	return nil, domain.ErrWithdrawalNotFound
}

func (m *MockWithdrawalRepository) ListByCreator(ctx context.Context, creatorID string, status domain.WithdrawalStatus, limit, offset int) ([]*domain.WithdrawalRequest, error) {
	if m.ListByCreatorFunc != nil {
		return m.ListByCreatorFunc(ctx, creatorID, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WithdrawalRequest
	for _, request := range m.requests {
		if request.CreatorID != creatorID {
			continue
		}
		if status != "" && request.Status != status {
			continue
		}
		result = append(result, request)
	}
	return result, nil
}

func (m *MockWithdrawalRepository) ListPending(ctx context.Context, creatorID string) ([]*domain.WithdrawalRequest, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, creatorID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WithdrawalRequest
	for _, request := range m.requests {
		if request.CreatorID == creatorID && request.Status.HoldsFunds() {
			result = append(result, request)
		}
	}
	return result, nil
}

func (m *MockWithdrawalRepository) Complete(ctx context.Context, id string, processedAt time.Time) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, id, processedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return domain.ErrWithdrawalNotFound
	}
	request.Status = domain.WithdrawalStatusCompleted
	request.ProcessedAt = &processedAt
	return nil
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.WithdrawalStatus, processedAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, processedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	request, ok := m.requests[id]
	if !ok {
		return domain.ErrWithdrawalNotFound
	}
	request.Status = status
	request.ProcessedAt = processedAt
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.WalletTransaction

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error
	GetByIDFunc        func(ctx context.Context, id, userID string) (*domain.WalletTransaction, error)
	ProcessCaptureFunc func(ctx context.Context, transactionID string, status domain.PaymentStatus) error
	SetReferenceIDFunc func(ctx context.Context, id, userID, referenceID string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.WalletTransaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.WalletTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[transaction.ID] = transaction
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id, userID string) (*domain.WalletTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transaction, ok := m.transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

func (m *MockTransactionRepository) ProcessCapture(ctx context.Context, transactionID string, status domain.PaymentStatus) error {
	if m.ProcessCaptureFunc != nil {
		return m.ProcessCaptureFunc(ctx, transactionID, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.transactions[transactionID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	transaction.PaymentStatus = status
	transaction.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockTransactionRepository) SetReferenceID(ctx context.Context, id, userID, referenceID string) error {
	if m.SetReferenceIDFunc != nil {
		return m.SetReferenceIDFunc(ctx, id, userID, referenceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction, ok := m.transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	transaction.ReferenceID = referenceID
	return nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	Notifications []*domain.Notification

	CreateFunc func(ctx context.Context, notification *domain.Notification) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifications = append(m.Notifications, notification)
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	Logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
	ListFunc   func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Logs, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	Events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, event := range m.Events {
		if !event.Published {
			result = append(result, event)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.Events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, event := range m.Events {
		if !event.Published || event.CreatedAt.After(before) {
			kept = append(kept, event)
		}
	}
	m.Events = kept
	return nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
	Committed    bool
	RolledBack   bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
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

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

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
	m.counter++
	return "test-id-" + string(rune('0'+m.counter%10))
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return "", domain.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
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

// MockPaymentGateway is a mock implementation of PaymentGateway.
type MockPaymentGateway struct {
	CreateOrderFunc  func(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
	CaptureOrderFunc func(ctx context.Context, orderID string) (*usecase.CaptureResult, error)
	VerifyFunc       func(ctx context.Context) error
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amount, currency)
	}
	return "order-1", nil
}

func (m *MockPaymentGateway) CaptureOrder(ctx context.Context, orderID string) (*usecase.CaptureResult, error) {
	if m.CaptureOrderFunc != nil {
		return m.CaptureOrderFunc(ctx, orderID)
	}
	return &usecase.CaptureResult{OrderID: orderID, Status: "COMPLETED"}, nil
}

func (m *MockPaymentGateway) Verify(ctx context.Context) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx)
	}
	return nil
}

// MockChangeSubscription is a mock implementation of ChangeSubscription.
type MockChangeSubscription struct {
	Ch        chan domain.ChangeEvent
	CloseFunc func() error

	mu     sync.Mutex
	closed bool
}

func NewMockChangeSubscription() *MockChangeSubscription {
	return &MockChangeSubscription{
		Ch: make(chan domain.ChangeEvent, 16),
	}
}

func (m *MockChangeSubscription) Events() <-chan domain.ChangeEvent {
	return m.Ch
}

func (m *MockChangeSubscription) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.Ch)
	}
	return nil
}

// Send delivers an event unless the subscription is closed.
func (m *MockChangeSubscription) Send(event domain.ChangeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.Ch <- event
	}
}

// MockChangeNotifier is a mock implementation of ChangeNotifier.
type MockChangeNotifier struct {
	mu            sync.Mutex
	Subscriptions map[string]*MockChangeSubscription

	SubscribeFunc func(ctx context.Context, table, userID string) (usecase.ChangeSubscription, error)
}

func NewMockChangeNotifier() *MockChangeNotifier {
	return &MockChangeNotifier{
		Subscriptions: make(map[string]*MockChangeSubscription),
	}
}

func (m *MockChangeNotifier) Subscribe(ctx context.Context, table, userID string) (usecase.ChangeSubscription, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, table, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := NewMockChangeSubscription()
	m.Subscriptions[table] = sub
	return sub, nil
}

// Emit pushes an event to the subscription registered for a table.
func (m *MockChangeNotifier) Emit(table string, event domain.ChangeEvent) {
	m.mu.Lock()
	sub, ok := m.Subscriptions[table]
	m.mu.Unlock()
	if ok {
		sub.Send(event)
	}
}
