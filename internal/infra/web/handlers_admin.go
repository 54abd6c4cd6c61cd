package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"taraz-store/internal/domain/model"
)

// ---- products ----

type productSaveRequest struct {
	ID             string  `json:"id" validate:"omitempty,uuid4"`
	Name           string  `json:"name" validate:"required,max=200"`
	Description    string  `json:"description" validate:"omitempty,max=2000"`
	Price          int64   `json:"price" validate:"gte=0"`
	OriginalPrice  *int64  `json:"original_price" validate:"omitempty,gte=0"`
	DeepLinkScheme *string `json:"deep_link_scheme" validate:"omitempty,max=64"`
	IsActive       *bool   `json:"is_active"`
}

func (s *Server) handleAdminProductSave(w http.ResponseWriter, r *http.Request) {
	var req productSaveRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	p, err := model.NewProduct(req.ID, req.Name, req.Description, req.Price)
	if err != nil {
		s.fail(w, err)
		return
	}
	p.OriginalPrice = req.OriginalPrice
	p.DeepLinkScheme = req.DeepLinkScheme
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.catalogUC.SaveProduct(r.Context(), p); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleAdminProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalogUC.ListProducts(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Product `json:"data"`
	}{Data: products})
}

func (s *Server) handleAdminProductGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalogUC.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAdminProductDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.catalogUC.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- coupons ----

type couponSaveRequest struct {
	ID            string     `json:"id" validate:"omitempty,uuid4"`
	Code          string     `json:"code" validate:"required,max=50"`
	DiscountType  string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue int64      `json:"discount_value" validate:"gt=0"`
	MinPurchase   *int64     `json:"min_purchase" validate:"omitempty,gte=0"`
	MaxUses       *int64     `json:"max_uses" validate:"omitempty,gt=0"`
	ValidFrom     *time.Time `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`
	ProductID     *string    `json:"product_id" validate:"omitempty,uuid4"`
	IsActive      *bool      `json:"is_active"`
}

func (s *Server) handleAdminCouponSave(w http.ResponseWriter, r *http.Request) {
	var req couponSaveRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	c, err := model.NewCoupon(req.ID, req.Code, model.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		s.fail(w, err)
		return
	}
	c.MinPurchase = req.MinPurchase
	c.MaxUses = req.MaxUses
	c.ValidFrom = req.ValidFrom
	c.ValidUntil = req.ValidUntil
	c.ProductID = req.ProductID
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.catalogUC.SaveCoupon(r.Context(), c); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleAdminCouponsList(w http.ResponseWriter, r *http.Request) {
	coupons, err := s.catalogUC.ListCoupons(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []*model.Coupon `json:"data"`
	}{Data: coupons})
}

func (s *Server) handleAdminCouponDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.catalogUC.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- licenses ----

func (s *Server) handleAdminLicensesList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	licenses, err := s.licenseUC.List(r.Context(), offset, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data   []*model.License `json:"data"`
		Limit  int              `json:"limit"`
		Offset int              `json:"offset"`
	}{Data: licenses, Limit: limit, Offset: offset})
}

func (s *Server) handleAdminLicenseRevoke(w http.ResponseWriter, r *http.Request) {
	if err := s.licenseUC.Revoke(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminLicenseReactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.licenseUC.Reactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type licenseExtendRequest struct {
	ExpiresAt time.Time `json:"expires_at" validate:"required"`
}

func (s *Server) handleAdminLicenseExtend(w http.ResponseWriter, r *http.Request) {
	var req licenseExtendRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}
	if err := s.licenseUC.Extend(r.Context(), chi.URLParam(r, "id"), req.ExpiresAt); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type licenseManualRequest struct {
	ProductID string     `json:"product_id" validate:"required,uuid4"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Phone     string     `json:"phone" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (s *Server) handleAdminLicenseManual(w http.ResponseWriter, r *http.Request) {
	var req licenseManualRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	l, err := s.licenseUC.IssueManual(r.Context(), req.ProductID, req.Email, req.Phone, req.ExpiresAt)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// ---- stats ----

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	users, byStatus, err := s.statsUC.Totals(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	week, month, year, err := s.statsUC.Revenue(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		TotalUsers     int64            `json:"total_users"`
		OrdersByStatus map[string]int64 `json:"orders_by_status"`
		Revenue        struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		} `json:"revenue_toman"`
	}{
		TotalUsers:     users,
		OrdersByStatus: byStatus,
		Revenue: struct {
			Week  int64 `json:"week"`
			Month int64 `json:"month"`
			Year  int64 `json:"year"`
		}{Week: week, Month: month, Year: year},
	})
}
