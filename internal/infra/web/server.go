package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"taraz-store/internal/infra/i18n"
	"taraz-store/internal/usecase"
)

// Server owns the HTTP surface: the public storefront API the frontend and
// desktop clients call, the browser-facing payment callback, and the admin
// API behind a bearer key.
type Server struct {
	orderUC      usecase.OrderUseCase
	otpUC        usecase.OTPUseCase
	activationUC usecase.ActivationUseCase
	catalogUC    *usecase.CatalogUseCase
	licenseUC    *usecase.LicenseAdminUseCase
	statsUC      *usecase.StatsUseCase
	tr           *i18n.Translator
	validate     *validator.Validate
	apiKey       string
	log          *zerolog.Logger
}

func NewServer(
	orderUC usecase.OrderUseCase,
	otpUC usecase.OTPUseCase,
	activationUC usecase.ActivationUseCase,
	catalogUC *usecase.CatalogUseCase,
	licenseUC *usecase.LicenseAdminUseCase,
	statsUC *usecase.StatsUseCase,
	tr *i18n.Translator,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		orderUC:      orderUC,
		otpUC:        otpUC,
		activationUC: activationUC,
		catalogUC:    catalogUC,
		licenseUC:    licenseUC,
		statsUC:      statsUC,
		tr:           tr,
		validate:     validator.New(),
		apiKey:       apiKey,
		log:          logger,
	}
}

// Router assembles the full route tree with middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Timeout(30*time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// browser-facing gateway callback; renders HTML, not JSON
	r.Get("/payment/verify", s.handlePaymentCallback)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(CORS())

		r.Get("/products", s.handleProductsList)
		r.Post("/payments", s.handlePaymentCreate)
		r.Post("/payments/verify", s.handlePaymentVerify)
		r.Post("/auth/otp/send", s.handleOTPSend)
		r.Post("/auth/otp/verify", s.handleOTPVerify)
		r.Post("/license/validate", s.handleLicenseValidate)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminAuth)

			r.Get("/products", s.handleAdminProductsList)
			r.Post("/products", s.handleAdminProductSave)
			r.Get("/products/{id}", s.handleAdminProductGet)
			r.Delete("/products/{id}", s.handleAdminProductDelete)

			r.Get("/coupons", s.handleAdminCouponsList)
			r.Post("/coupons", s.handleAdminCouponSave)
			r.Delete("/coupons/{id}", s.handleAdminCouponDelete)

			r.Get("/licenses", s.handleAdminLicensesList)
			r.Post("/licenses/manual", s.handleAdminLicenseManual)
			r.Post("/licenses/{id}/revoke", s.handleAdminLicenseRevoke)
			r.Post("/licenses/{id}/reactivate", s.handleAdminLicenseReactivate)
			r.Post("/licenses/{id}/extend", s.handleAdminLicenseExtend)

			r.Get("/stats", s.handleAdminStats)
		})
	})

	return r
}

// adminAuth gates the back-office routes behind a static bearer key.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
