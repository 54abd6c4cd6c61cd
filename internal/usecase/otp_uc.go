package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taraz-store/internal/domain"
	"taraz-store/internal/domain/model"
	"taraz-store/internal/domain/ports/adapter"
	"taraz-store/internal/domain/ports/repository"
	"taraz-store/internal/infra/metrics"
)

// Compile-time check
var _ OTPUseCase = (*otpUC)(nil)

// RateLimiter is the fixed-window limiter the OTP flow throttles requests with.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type OTPUseCase interface {
	// RequestCode issues a fresh code for phone and dispatches it by SMS.
	// Fails closed: when the SMS provider errors, so does the request.
	RequestCode(ctx context.Context, phone string) error
	// VerifyCode redeems a code. Single-use: a second verification with the
	// same code fails with domain.ErrOTPInvalid.
	VerifyCode(ctx context.Context, phone, code string) (*model.Session, error)
}

type OTPConfig struct {
	CodeTTL     time.Duration // how long a code stays redeemable
	MaxRequests int           // per phone per window
	Window      time.Duration
	RevealInDev bool // expose the code in logs when running with -dev
	SMSTemplate string
}

type otpUC struct {
	codes   repository.OTPRepository
	sms     adapter.SMSSender
	session adapter.SessionIssuer
	limiter RateLimiter
	cfg     OTPConfig
	dev     bool
	log     *zerolog.Logger
}

func NewOTPUseCase(
	codes repository.OTPRepository,
	sms adapter.SMSSender,
	session adapter.SessionIssuer,
	limiter RateLimiter,
	cfg OTPConfig,
	dev bool,
	logger *zerolog.Logger,
) *otpUC {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 2 * time.Minute
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 3
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.SMSTemplate == "" {
		cfg.SMSTemplate = "کد تأیید شما: %s\nمهدیار تراز"
	}
	return &otpUC{codes: codes, sms: sms, session: session, limiter: limiter, cfg: cfg, dev: dev, log: logger}
}

func otpRateKey(phone string) string { return "otp:req:" + phone }

func (u *otpUC) RequestCode(ctx context.Context, phone string) error {
	if !model.ValidPhone(phone) {
		return fmt.Errorf("phone: %w", domain.ErrInvalidArgument)
	}

	ok, err := u.limiter.Allow(ctx, otpRateKey(phone), u.cfg.MaxRequests, u.cfg.Window)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if !ok {
		metrics.IncOTP("rate_limited")
		return domain.ErrRateLimited
	}

	code, err := generateOTPDigits(6)
	if err != nil {
		return err
	}
	record, err := model.NewOTPCode(phone, code, u.cfg.CodeTTL)
	if err != nil {
		return err
	}
	if err := u.codes.Save(ctx, nil, record); err != nil {
		return err
	}

	if err := u.sms.Send(ctx, phone, fmt.Sprintf(u.cfg.SMSTemplate, code)); err != nil {
		metrics.IncOTP("sms_failed")
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if u.dev && u.cfg.RevealInDev {
		// local development convenience only; never reached in the default path
		u.log.Debug().Str("phone", phone).Str("code", code).Msg("otp issued (dev)")
	} else {
		u.log.Info().Str("phone", redactPhone(phone)).Msg("otp issued")
	}
	metrics.IncOTP("sent")
	return nil
}

func (u *otpUC) VerifyCode(ctx context.Context, phone, code string) (*model.Session, error) {
	if !model.ValidPhone(phone) {
		return nil, fmt.Errorf("phone: %w", domain.ErrInvalidArgument)
	}
	if !model.ValidOTPCode(code) {
		return nil, fmt.Errorf("code: %w", domain.ErrInvalidArgument)
	}

	// the record's salt is needed to compute the candidate digest; Consume
	// stays a single atomic compare-and-delete, so two concurrent verifies
	// with the same code cannot both get the record back.
	latest, err := u.codes.Latest(ctx, nil, phone)
	if err != nil {
		if err == domain.ErrNotFound {
			metrics.IncOTP("invalid")
			return nil, domain.ErrOTPInvalid
		}
		return nil, err
	}
	record, err := u.codes.Consume(ctx, nil, latest.ID, model.HashOTP(code, latest.Salt))
	if err != nil {
		if err == domain.ErrNotFound {
			metrics.IncOTP("invalid")
			return nil, domain.ErrOTPInvalid
		}
		return nil, err
	}
	if record.ExpiresAt.Before(time.Now()) {
		metrics.IncOTP("expired")
		return nil, domain.ErrOTPExpired
	}

	session, err := u.session.CreateOrRotate(ctx, phone)
	if err != nil {
		return nil, err
	}
	metrics.IncOTP("verified")
	u.log.Info().Str("phone", redactPhone(phone)).Msg("otp verified, session minted")
	return session, nil
}

// redactPhone keeps a short preview so logs stay correlatable without PII.
func redactPhone(s string) string {
	if len(s) <= 6 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-2:]
}
