package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"taraz-store/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps a domain error to an HTTP status and a localized message. The
// cause never leaves the server; clients only see the translated text.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status, key := classify(err)
	writeJSON(w, status, errorBody{Error: s.tr.T(key)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "error_invalid_request"
	case errors.Is(err, domain.ErrLicenseNotFound):
		return http.StatusNotFound, "error_license_not_found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "error_order_not_found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "error_product_not_found"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "error_rate_limited"
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusBadRequest, "error_invalid_code"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, "error_code_expired"
	case errors.Is(err, domain.ErrOrderFinalized):
		return http.StatusConflict, "error_order_finalized"
	case errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusPaymentRequired, "error_payment_failed"
	case errors.Is(err, domain.ErrLicenseRevoked):
		return http.StatusForbidden, "error_license_revoked"
	case errors.Is(err, domain.ErrLicenseExpired):
		return http.StatusForbidden, "error_license_expired"
	case errors.Is(err, domain.ErrDeviceMismatch):
		return http.StatusForbidden, "error_device_mismatch"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "error_invalid_request"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "error_gateway_unavailable"
	default:
		return http.StatusInternalServerError, "error_internal"
	}
}
