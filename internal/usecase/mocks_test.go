//go:build !integration

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
)

// ---------------- in-memory repositories ----------------

type memProductRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Product
	saveErr error
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{store: make(map[string]*model.Product)}
}

func (m *memProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memProductRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) FindActiveByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	p, err := m.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *memProductRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Product, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memProductRepo) IncrementSalesCount(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.SalesCount++
	return nil
}

func (m *memProductRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memCouponRepo struct {
	mu       sync.RWMutex
	store    map[string]*model.Coupon      // by id
	usages   map[string]*model.CouponUsage // by order id
	saveErr  error
	usageErr error
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{
		store:  make(map[string]*model.Coupon),
		usages: make(map[string]*model.CouponUsage),
	}
}

func (m *memCouponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCouponRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCouponRepo) FindActiveByCode(ctx context.Context, tx repository.Tx, code string) (*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Code == code && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCouponRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Coupon, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memCouponRepo) IncrementUsage(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	if m.usageErr != nil {
		return false, m.usageErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (m *memCouponRepo) RecordUsage(ctx context.Context, tx repository.Tx, u *model.CouponUsage) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.usages[u.OrderID]; dup {
		return false, nil
	}
	cp := *u
	m.usages[u.OrderID] = &cp
	return true, nil
}

func (m *memCouponRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memOrderRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Order
	saveErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

func (m *memOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) SetAuthority(ctx context.Context, tx repository.Tx, id, authority string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Authority = &authority
	return nil
}

func (m *memOrderRepo) CompleteIfPending(ctx context.Context, tx repository.Tx, id, refID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = model.OrderStatusCompleted
	o.RefID = &refID
	return true, nil
}

func (m *memOrderRepo) FailIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != model.OrderStatusPending {
		return false, nil
	}
	o.Status = model.OrderStatusFailed
	return true, nil
}

func (m *memOrderRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Order
	for _, o := range m.store {
		if o.Status == status {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memOrderRepo) CountByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, o := range m.store {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memOrderRepo) SumCompletedByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, o := range m.store {
		if o.Status == model.OrderStatusCompleted {
			sum += o.Amount
		}
	}
	return sum, nil
}

type memLicenseRepo struct {
	mu        sync.RWMutex
	byID      map[string]*model.License
	insertErr error
	// forceCollision makes the first N inserts report ErrAlreadyExists, the
	// way a conflicting key surfaces from an INSERT ... ON CONFLICT DO
	// NOTHING: an error to the caller, not to the transaction.
	forceCollision int
	// txAborted mirrors Postgres behavior after a raw statement error:
	// every later statement on the same transaction fails.
	txAborted bool
}

func newMemLicenseRepo() *memLicenseRepo {
	return &memLicenseRepo{byID: make(map[string]*model.License)}
}

func (m *memLicenseRepo) Insert(ctx context.Context, tx repository.Tx, l *model.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.txAborted {
		return domain.ErrOperationFailed
	}
	if m.insertErr != nil {
		m.txAborted = true
		return m.insertErr
	}
	if m.forceCollision > 0 {
		m.forceCollision--
		return domain.ErrAlreadyExists
	}
	for _, e := range m.byID {
		if e.LicenseKey == l.LicenseKey {
			return domain.ErrAlreadyExists
		}
	}
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *memLicenseRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.License, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.byID {
		if l.LicenseKey == key {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memLicenseRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.License, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.byID {
		if l.OrderID == orderID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memLicenseRepo) ListAll(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.License, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.License, 0, len(m.byID))
	for _, l := range m.byID {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLicenseRepo) BindDevice(ctx context.Context, tx repository.Tx, id, deviceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if l.DeviceID != nil {
		return false, nil
	}
	now := time.Now()
	l.DeviceID = &deviceID
	l.ActivatedAt = &now
	l.Status = model.LicenseStatusActive
	return true, nil
}

func (m *memLicenseRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.LicenseStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	return nil
}

func (m *memLicenseRepo) ClearDeviceBinding(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.DeviceID = nil
	l.ActivatedAt = nil
	return nil
}

func (m *memLicenseRepo) SetExpiry(ctx context.Context, tx repository.Tx, id string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.ExpiresAt = expiresAt
	return nil
}

type memOTPRepo struct {
	mu      sync.Mutex
	store   map[string]*model.OTPCode // by id
	saveErr error
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{store: make(map[string]*model.OTPCode)}
}

func (m *memOTPRepo) Save(ctx context.Context, tx repository.Tx, c *model.OTPCode) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memOTPRepo) Latest(ctx context.Context, tx repository.Tx, phone string) (*model.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.OTPCode
	for _, c := range m.store {
		if c.Phone != phone || c.Verified {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *memOTPRepo) Consume(ctx context.Context, tx repository.Tx, id, codeHash string) (*model.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok || c.Verified || c.CodeHash != codeHash {
		return nil, domain.ErrNotFound
	}
	delete(m.store, id)
	cp := *c
	return &cp, nil
}

func (m *memOTPRepo) DeleteExpired(ctx context.Context, tx repository.Tx) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for id, c := range m.store {
		if c.ExpiresAt.Before(now) {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}

// ---------------- adapter mocks ----------------

type mockGateway struct {
	RequestPaymentFunc func(ctx context.Context, amountIRR int64, description, callbackURL string, meta map[string]interface{}) (string, string, error)
	VerifyPaymentFunc  func(ctx context.Context, authority string, amountIRR int64) (string, error)
	verifyCalls        int
}

func (m *mockGateway) Name() string { return "mock" }

func (m *mockGateway) RequestPayment(ctx context.Context, amountIRR int64, description, callbackURL string, meta map[string]interface{}) (string, string, error) {
	if m.RequestPaymentFunc != nil {
		return m.RequestPaymentFunc(ctx, amountIRR, description, callbackURL, meta)
	}
	return "A-0001", "https://gateway.test/pay/A-0001", nil
}

func (m *mockGateway) VerifyPayment(ctx context.Context, authority string, amountIRR int64) (string, error) {
	m.verifyCalls++
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, authority, amountIRR)
	}
	return "ref-123", nil
}

type mockSMS struct {
	SendFunc func(ctx context.Context, phone, message string) error
	sent     []string
}

func (m *mockSMS) Name() string { return "mock" }

func (m *mockSMS) Send(ctx context.Context, phone, message string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, phone, message)
	}
	m.sent = append(m.sent, message)
	return nil
}

type mockSession struct {
	CreateOrRotateFunc func(ctx context.Context, phone string) (*model.Session, error)
}

func (m *mockSession) CreateOrRotate(ctx context.Context, phone string) (*model.Session, error) {
	if m.CreateOrRotateFunc != nil {
		return m.CreateOrRotateFunc(ctx, phone)
	}
	u, _ := model.NewUser(phone, model.DerivedEmail(phone, "example.ir"))
	return &model.Session{Token: "tok-" + phone, ExpiresAt: time.Now().Add(time.Hour), User: u}, nil
}

type mockLimiter struct {
	counts map[string]int
}

func newMockLimiter() *mockLimiter { return &mockLimiter{counts: make(map[string]int)} }

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.counts[key]++
	return m.counts[key] <= limit, nil
}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }
