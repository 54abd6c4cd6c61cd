package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

// decode parses and validates a JSON request body.
func (s *Server) decode(r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false
	}
	return s.validate.Struct(dst) == nil
}

func (s *Server) badRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: s.tr.T("error_invalid_request")})
}

// ---- catalog ----

type productView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Price         int64  `json:"price"`
	OriginalPrice *int64 `json:"original_price,omitempty"`
	SalesCount    int64  `json:"sales_count"`
}

func (s *Server) handleProductsList(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalogUC.ListProducts(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	items := make([]productView, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		items = append(items, productView{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			OriginalPrice: p.OriginalPrice,
			SalesCount:    p.SalesCount,
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Data []productView `json:"data"`
	}{Data: items})
}

// ---- payments ----

type paymentCreateRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid4"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"required"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=50"`
}

func (s *Server) handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	var req paymentCreateRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	order, payURL, err := s.orderUC.Create(r.Context(), req.ProductID, req.Email, req.Phone, req.CouponCode)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		OrderID        string `json:"order_id"`
		PayURL         string `json:"pay_url"`
		Amount         int64  `json:"amount"`
		DiscountAmount int64  `json:"discount_amount"`
	}{
		OrderID:        order.ID,
		PayURL:         payURL,
		Amount:         order.Amount,
		DiscountAmount: order.DiscountAmount,
	})
}

type paymentVerifyRequest struct {
	OrderID   string `json:"order_id" validate:"required,uuid4"`
	Authority string `json:"authority" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

type paymentVerifyResponse struct {
	Success          bool   `json:"success"`
	Cancelled        bool   `json:"cancelled,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	LicenseKey       string `json:"license_key,omitempty"`
	RefID            string `json:"ref_id,omitempty"`
	ProductName      string `json:"product_name,omitempty"`
	DeepLink         string `json:"deep_link,omitempty"`
	Message          string `json:"message"`
}

func (s *Server) handlePaymentVerify(w http.ResponseWriter, r *http.Request) {
	var req paymentVerifyRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	res, err := s.orderUC.Finalize(r.Context(), req.OrderID, req.Authority, req.Status)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := paymentVerifyResponse{
		Success:          res.Success,
		Cancelled:        res.Cancelled,
		AlreadyProcessed: res.AlreadyProcessed,
		LicenseKey:       res.LicenseKey,
		RefID:            res.RefID,
		ProductName:      res.ProductName,
		DeepLink:         res.DeepLinkScheme,
	}
	switch {
	case res.Cancelled:
		out.Message = s.tr.T("error_payment_cancelled")
	default:
		out.Message = s.tr.T("msg_payment_success")
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- auth ----

type otpSendRequest struct {
	Phone string `json:"phone" validate:"required"`
}

func (s *Server) handleOTPSend(w http.ResponseWriter, r *http.Request) {
	var req otpSendRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	if err := s.otpUC.RequestCode(r.Context(), req.Phone); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: s.tr.T("msg_otp_sent")})
}

type otpVerifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	session, err := s.otpUC.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
		Email     string    `json:"email"`
	}{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Email:     session.User.Email,
	})
}

// ---- activation ----

type licenseValidateRequest struct {
	LicenseKey string `json:"license_key" validate:"required,max=64"`
	DeviceID   string `json:"device_id" validate:"required,max=128"`
}

func (s *Server) handleLicenseValidate(w http.ResponseWriter, r *http.Request) {
	var req licenseValidateRequest
	if !s.decode(r, &req) {
		s.badRequest(w)
		return
	}

	act, err := s.activationUC.Validate(r.Context(), req.LicenseKey, req.DeviceID)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Valid       bool       `json:"valid"`
		ProductID   string     `json:"product_id"`
		ProductName string     `json:"product_name"`
		ActivatedAt *time.Time `json:"activated_at,omitempty"`
		ExpiresAt   *time.Time `json:"expires_at,omitempty"`
		Message     string     `json:"message"`
	}{
		Valid:       true,
		ProductID:   act.Product.ID,
		ProductName: act.Product.Name,
		ActivatedAt: act.License.ActivatedAt,
		ExpiresAt:   act.License.ExpiresAt,
		Message:     s.tr.T("msg_license_valid"),
	})
}

// ---- gateway callback (browser redirect) ----

var callbackPage = template.Must(template.New("cb").Parse(`<!doctype html>
<html lang="fa" dir="rtl">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>{{if .OK}}پرداخت موفق{{else}}نتیجه پرداخت{{end}}</title>
<style>
body{font-family:Tahoma,system-ui,sans-serif;margin:2rem;background:#fafafa}
.card{max-width:560px;margin:auto;border:1px solid #ddd;border-radius:12px;padding:24px;background:#fff}
.ok{color:#057a55} .fail{color:#b00020}
.key{direction:ltr;font-family:monospace;font-size:1.2rem;background:#f3f4f6;padding:12px;border-radius:8px;text-align:center;letter-spacing:1px}
.btn{display:inline-block;margin-top:16px;padding:10px 16px;border-radius:8px;border:1px solid #888;text-decoration:none;color:inherit}
.small{font-size:12px;color:#666}
</style>
</head>
<body>
<div class="card">
  <h2 class="{{if .OK}}ok{{else}}fail{{end}}">{{.Title}}</h2>
  <p>{{.Msg}}</p>
  {{if .LicenseKey}}
    <div class="key">{{.LicenseKey}}</div>
    <div class="small">این کد برای شما پیامک نمی‌شود؛ آن را همین حالا ذخیره کنید.</div>
  {{end}}
  {{if .DeepLink}}
    <a class="btn" href="{{.DeepLink}}://activate?key={{.LicenseKey}}">فعال‌سازی در برنامه</a>
  {{end}}
  {{if .RefID}}<p class="small">کد پیگیری: {{.RefID}}</p>{{end}}
</div>
</body>
</html>`))

type callbackView struct {
	OK         bool
	Title      string
	Msg        string
	LicenseKey string
	DeepLink   string
	RefID      string
}

func (s *Server) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderID := q.Get("order_id")
	authority := q.Get("Authority")
	status := q.Get("Status")

	res, err := s.orderUC.Finalize(r.Context(), orderID, authority, status)
	if err != nil {
		code, key := classify(err)
		s.renderCallback(w, code, callbackView{
			Title: "پرداخت ناموفق",
			Msg:   s.tr.T(key),
		})
		return
	}
	if res.Cancelled {
		s.renderCallback(w, http.StatusOK, callbackView{
			Title: "پرداخت لغو شد",
			Msg:   s.tr.T("error_payment_cancelled"),
		})
		return
	}

	s.renderCallback(w, http.StatusOK, callbackView{
		OK:         true,
		Title:      "پرداخت موفق",
		Msg:        s.tr.T("msg_payment_success"),
		LicenseKey: res.LicenseKey,
		DeepLink:   res.DeepLinkScheme,
		RefID:      res.RefID,
	})
}

func (s *Server) renderCallback(w http.ResponseWriter, code int, v callbackView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = callbackPage.Execute(w, v)
}
