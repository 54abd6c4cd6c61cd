package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/adapter"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FinalizeResult is what the payment-callback endpoint reports back to the
// browser after the gateway round trip.
type FinalizeResult struct {
	Success          bool
	Cancelled        bool
	AlreadyProcessed bool
	LicenseKey       string
	RefID            string
	ProductName      string
	DeepLinkScheme   string
}

type OrderUseCase interface {
	// Create prices the product, persists a pending order and opens a payment
	// session. Returns the order and the gateway redirect URL.
	Create(ctx context.Context, productID, customerEmail, customerPhone, couponCode string) (*model.Order, string, error)
	// Finalize verifies the payment and issues the license. Idempotent: a
	// replay against a completed order returns the existing license key.
	Finalize(ctx context.Context, orderID, authority, gatewayStatus string) (*FinalizeResult, error)
}

type orderUC struct {
	products repository.ProductRepository
	coupons  repository.CouponRepository
	orders   repository.OrderRepository
	licenses repository.LicenseRepository
	gateway  adapter.PaymentGateway
	tm       repository.TransactionManager
	cbBase   string // public base URL the gateway redirects back to
	log      *zerolog.Logger
}

func NewOrderUseCase(
	products repository.ProductRepository,
	coupons repository.CouponRepository,
	orders repository.OrderRepository,
	licenses repository.LicenseRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	callbackBase string,
	logger *zerolog.Logger,
) *orderUC {
	return &orderUC{
		products: products,
		coupons:  coupons,
		orders:   orders,
		licenses: licenses,
		gateway:  gateway,
		tm:       tm,
		cbBase:   strings.TrimRight(callbackBase, "/"),
		log:      logger,
	}
}

// tomanToRial converts the stored amount to the gateway's unit. Applied at
// create and verify alike; a mismatch between the two fails verification.
func tomanToRial(toman int64) int64 { return toman * 10 }

func (u *orderUC) Create(ctx context.Context, productID, customerEmail, customerPhone, couponCode string) (*model.Order, string, error) {
	productID = strings.TrimSpace(productID)
	customerEmail = strings.ToLower(strings.TrimSpace(customerEmail))
	customerPhone = strings.ReplaceAll(customerPhone, " ", "")

	if _, err := uuid.Parse(productID); err != nil {
		return nil, "", fmt.Errorf("product_id: %w", domain.ErrInvalidArgument)
	}
	if len(customerEmail) > 255 || !emailPattern.MatchString(customerEmail) {
		return nil, "", fmt.Errorf("customer_email: %w", domain.ErrInvalidArgument)
	}
	if !model.ValidPhone(customerPhone) {
		return nil, "", fmt.Errorf("customer_phone: %w", domain.ErrInvalidArgument)
	}

	product, err := u.products.FindActiveByID(ctx, nil, productID)
	if err != nil {
		return nil, "", err
	}

	var coupon *model.Coupon
	if code := model.NormalizeCouponCode(couponCode); code != "" && len(code) <= 50 {
		// an unknown code is simply not applied
		if c, err := u.coupons.FindActiveByCode(ctx, nil, code); err == nil {
			coupon = c
		}
	}
	quote := PriceQuote(product, coupon, time.Now())

	order, err := model.NewOrder(product.ID, customerEmail, customerPhone, quote.FinalAmount, product.Price, quote.DiscountAmount, quote.CouponID)
	if err != nil {
		return nil, "", err
	}
	if err := u.orders.Save(ctx, nil, order); err != nil {
		return nil, "", err
	}
	metrics.IncOrder(string(model.OrderStatusPending))

	callbackURL := fmt.Sprintf("%s/payment/verify?order_id=%s", u.cbBase, order.ID)
	meta := map[string]interface{}{
		"email":    customerEmail,
		"mobile":   customerPhone,
		"order_id": order.ID,
	}
	authority, payURL, err := u.gateway.RequestPayment(ctx, tomanToRial(order.Amount), "خرید "+product.Name, callbackURL, meta)
	if err != nil {
		// the pending order stays; payment can be re-initiated for it
		u.log.Warn().Err(err).Str("order_id", order.ID).Msg("payment request failed, order left pending")
		return nil, "", fmt.Errorf("payment request: %w", err)
	}
	if err := u.orders.SetAuthority(ctx, nil, order.ID, authority); err != nil {
		return nil, "", err
	}
	order.Authority = &authority

	u.log.Info().Str("order_id", order.ID).Int64("amount", order.Amount).Msg("order created")
	return order, payURL, nil
}

func (u *orderUC) Finalize(ctx context.Context, orderID, authority, gatewayStatus string) (*FinalizeResult, error) {
	if gatewayStatus != "OK" {
		// user-cancelled at the gateway; order untouched and still payable
		u.log.Info().Str("order_id", orderID).Str("status", gatewayStatus).Msg("payment cancelled by user")
		return &FinalizeResult{Cancelled: true}, nil
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, fmt.Errorf("order_id: %w", domain.ErrInvalidArgument)
	}

	order, err := u.orders.FindByID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status == model.OrderStatusCompleted {
		return u.replayResult(ctx, order)
	}
	if order.IsTerminal() {
		return nil, domain.ErrOrderFinalized
	}

	refID, err := u.gateway.VerifyPayment(ctx, authority, tomanToRial(order.Amount))
	if err != nil {
		if _, ferr := u.orders.FailIfPending(ctx, nil, order.ID); ferr != nil {
			u.log.Error().Err(ferr).Str("order_id", order.ID).Msg("could not mark order failed")
		}
		metrics.IncOrder(string(model.OrderStatusFailed))
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}

	product, err := u.products.FindByID(ctx, nil, order.ProductID)
	if err != nil {
		return nil, err
	}

	var license *model.License
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		won, err := u.orders.CompleteIfPending(ctx, tx, order.ID, refID)
		if err != nil {
			return err
		}
		if !won {
			// a concurrent finalize got here first; serve the replay below
			return domain.ErrOrderFinalized
		}
		if err := u.products.IncrementSalesCount(ctx, tx, order.ProductID); err != nil {
			return err
		}
		if order.CouponID != nil {
			counted, err := u.coupons.IncrementUsage(ctx, tx, *order.CouponID)
			if err != nil {
				return err
			}
			if !counted {
				// the coupon hit max_uses between create and finalize; the
				// order keeps its discount but the cap stays where it is
				u.log.Warn().Str("coupon_id", *order.CouponID).Str("order_id", order.ID).Msg("coupon exhausted before finalize")
			}
			usage := &model.CouponUsage{
				ID:             uuid.NewString(),
				CouponID:       *order.CouponID,
				OrderID:        order.ID,
				CustomerEmail:  order.CustomerEmail,
				DiscountAmount: order.DiscountAmount,
				CreatedAt:      time.Now(),
			}
			if _, err := u.coupons.RecordUsage(ctx, tx, usage); err != nil {
				return err
			}
		}
		license, err = u.issueLicense(ctx, tx, order)
		return err
	})
	if err != nil {
		if err == domain.ErrOrderFinalized {
			fresh, rerr := u.orders.FindByID(ctx, nil, order.ID)
			if rerr == nil && fresh.Status == model.OrderStatusCompleted {
				return u.replayResult(ctx, fresh)
			}
			return nil, domain.ErrOrderFinalized
		}
		return nil, err
	}

	metrics.IncOrder(string(model.OrderStatusCompleted))
	metrics.AddOrderRevenue("toman", order.Amount)
	u.log.Info().Str("order_id", order.ID).Str("ref_id", refID).Msg("order completed, license issued")

	return &FinalizeResult{
		Success:        true,
		LicenseKey:     license.LicenseKey,
		RefID:          refID,
		ProductName:    product.Name,
		DeepLinkScheme: strOrEmpty(product.DeepLinkScheme),
	}, nil
}

// issueLicense inserts a freshly generated key, retrying once if the key
// collides with an existing row. The insert absorbs the conflict, so the
// retry runs in the same still-open transaction.
func (u *orderUC) issueLicense(ctx context.Context, tx repository.Tx, order *model.Order) (*model.License, error) {
	for attempt := 0; attempt < 2; attempt++ {
		key, err := generateLicenseKey()
		if err != nil {
			return nil, err
		}
		l := model.NewLicense(key, order.ID, order.ProductID, nil)
		if err := u.licenses.Insert(ctx, tx, l); err != nil {
			if err == domain.ErrAlreadyExists {
				continue
			}
			return nil, err
		}
		metrics.IncLicenseIssued()
		return l, nil
	}
	return nil, fmt.Errorf("license key collision: %w", domain.ErrOperationFailed)
}

func (u *orderUC) replayResult(ctx context.Context, order *model.Order) (*FinalizeResult, error) {
	license, err := u.licenses.FindByOrderID(ctx, nil, order.ID)
	if err != nil {
		return nil, err
	}
	product, err := u.products.FindByID(ctx, nil, order.ProductID)
	if err != nil {
		return nil, err
	}
	return &FinalizeResult{
		Success:          true,
		AlreadyProcessed: true,
		LicenseKey:       license.LicenseKey,
		RefID:            strOrEmpty(order.RefID),
		ProductName:      product.Name,
		DeepLinkScheme:   strOrEmpty(product.DeepLinkScheme),
	}, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
