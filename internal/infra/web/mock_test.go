//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/usecase"
)

// ---------------- use case stubs ----------------

type stubOrderUC struct {
	CreateFunc   func(ctx context.Context, productID, email, phone, couponCode string) (*model.Order, string, error)
	FinalizeFunc func(ctx context.Context, orderID, authority, status string) (*usecase.FinalizeResult, error)
}

func (s *stubOrderUC) Create(ctx context.Context, productID, email, phone, couponCode string) (*model.Order, string, error) {
	return s.CreateFunc(ctx, productID, email, phone, couponCode)
}

func (s *stubOrderUC) Finalize(ctx context.Context, orderID, authority, status string) (*usecase.FinalizeResult, error) {
	return s.FinalizeFunc(ctx, orderID, authority, status)
}

type stubOTPUC struct {
	RequestCodeFunc func(ctx context.Context, phone string) error
	VerifyCodeFunc  func(ctx context.Context, phone, code string) (*model.Session, error)
}

func (s *stubOTPUC) RequestCode(ctx context.Context, phone string) error {
	return s.RequestCodeFunc(ctx, phone)
}

func (s *stubOTPUC) VerifyCode(ctx context.Context, phone, code string) (*model.Session, error) {
	return s.VerifyCodeFunc(ctx, phone, code)
}

type stubActivationUC struct {
	ValidateFunc func(ctx context.Context, licenseKey, deviceID string) (*usecase.Activation, error)
}

func (s *stubActivationUC) Validate(ctx context.Context, licenseKey, deviceID string) (*usecase.Activation, error) {
	return s.ValidateFunc(ctx, licenseKey, deviceID)
}

// ---------------- in-memory repos for the concrete admin use cases ----------------

type memProductRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{store: make(map[string]*model.Product)}
}

func (m *memProductRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
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
	if err != nil || !p.IsActive {
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
	return nil
}

func (m *memProductRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memCouponRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Coupon
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{store: make(map[string]*model.Coupon)}
}

func (m *memCouponRepo) Save(ctx context.Context, tx repository.Tx, c *model.Coupon) error {
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
	return true, nil
}

func (m *memCouponRepo) RecordUsage(ctx context.Context, tx repository.Tx, u *model.CouponUsage) (bool, error) {
	return true, nil
}

func (m *memCouponRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memLicenseRepo struct {
	mu    sync.RWMutex
	store map[string]*model.License
}

func newMemLicenseRepo() *memLicenseRepo {
	return &memLicenseRepo{store: make(map[string]*model.License)}
}

func (m *memLicenseRepo) Insert(ctx context.Context, tx repository.Tx, l *model.License) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.store[l.ID] = &cp
	return nil
}

func (m *memLicenseRepo) FindByKey(ctx context.Context, tx repository.Tx, key string) (*model.License, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.store {
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
	for _, l := range m.store {
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
	out := make([]*model.License, 0, len(m.store))
	for _, l := range m.store {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLicenseRepo) BindDevice(ctx context.Context, tx repository.Tx, id, deviceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if l.DeviceID != nil {
		return false, nil
	}
	now := time.Now()
	l.DeviceID = &deviceID
	l.ActivatedAt = &now
	return true, nil
}

func (m *memLicenseRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.LicenseStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	return nil
}

func (m *memLicenseRepo) ClearDeviceBinding(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
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
	l, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.ExpiresAt = expiresAt
	return nil
}

type memOrderRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{store: make(map[string]*model.Order)}
}

func (m *memOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
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
	return nil
}

func (m *memOrderRepo) CompleteIfPending(ctx context.Context, tx repository.Tx, id, refID string) (bool, error) {
	return false, nil
}

func (m *memOrderRepo) FailIfPending(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	return false, nil
}

func (m *memOrderRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	return nil, nil
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

type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{store: make(map[string]*model.User)} }

func (m *memUserRepo) Upsert(ctx context.Context, tx repository.Tx, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.Phone] = &cp
	return &cp, nil
}

func (m *memUserRepo) FindByPhone(ctx context.Context, tx repository.Tx, phone string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.store)), nil
}
