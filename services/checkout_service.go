// services/checkout_service.go
package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"studiojb-backend/utils"

	"github.com/shopspring/decimal"
)

const (
	OrderPrefix = "SJB-"

	confirmationPath = "/agendamento/confirmacao"
	paymentPath      = "/agendamento/pagamento"
	downPaymentLabel = "Entrada - "
)

// Chargeable is anything the checkout can sell: a service or a kit.
type Chargeable struct {
	Name                string
	Price               decimal.NullDecimal
	DownPaymentValue    decimal.Decimal
	RequiresDownPayment bool
	IsVariablePrice     bool
}

// Customer carries the optional fields forwarded to the checkout page.
type Customer struct {
	Name  string
	Phone string
	CPF   string
}

type CheckoutItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"` // cents
	Quantity int    `json:"quantity"`
}

// CheckoutDescriptor is built per payment attempt and never stored.
type CheckoutDescriptor struct {
	CheckoutURL string       `json:"checkout_url"`
	OrderNSU    string       `json:"order_nsu"`
	Item        CheckoutItem `json:"item"`
	SuccessURL  string       `json:"success_url"`
	CancelURL   string       `json:"cancel_url"`
}

// CheckoutRequest is one payment attempt for a booked appointment.
type CheckoutRequest struct {
	Item          Chargeable
	Customer      Customer
	AppointmentID uint
	DownPayment   bool
	// Origin is the site the client is on. Only allowed origins are used.
	Origin string
	// SessionID rides on the success URL so the return can close the wizard.
	SessionID string
}

// CheckoutService builds InfinitePay checkout links and decodes the order
// references they return with.
type CheckoutService struct {
	checkoutURL string
	handle      string
	origin      string
	allowed     map[string]struct{}
	now         func() time.Time
	lastMillis  atomic.Int64
}

// NewCheckoutService configures the checkout. allowedOrigins lists the other
// sites (besides origin) a client may be sent back to.
func NewCheckoutService(checkoutURL, handle, origin string, allowedOrigins ...string) *CheckoutService {
	s := &CheckoutService{
		checkoutURL: strings.TrimRight(checkoutURL, "/"),
		handle:      handle,
		origin:      strings.TrimRight(origin, "/"),
		allowed:     make(map[string]struct{}, len(allowedOrigins)+1),
		now:         time.Now,
	}
	s.allowed[s.origin] = struct{}{}
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && o != "*" {
			s.allowed[o] = struct{}{}
		}
	}
	return s
}

// ReturnOrigin picks the site the checkout redirects back to. Unknown
// origins fall back to the configured one.
func (s *CheckoutService) ReturnOrigin(origin string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if _, ok := s.allowed[origin]; ok && origin != "" {
		return origin
	}
	return s.origin
}

// BuildCheckout prepares the redirect to the hosted checkout.
func (s *CheckoutService) BuildCheckout(req CheckoutRequest) (CheckoutDescriptor, error) {
	item := req.Item
	amount := item.Price.Decimal
	name := item.Name
	if req.DownPayment {
		amount = item.DownPaymentValue
		name = downPaymentLabel + item.Name
	}

	checkoutItem := CheckoutItem{
		Name:     name,
		Price:    utils.ToCents(amount),
		Quantity: 1,
	}

	orderNSU := OrderPrefix + strconv.FormatUint(uint64(req.AppointmentID), 10) + "-" + strconv.FormatInt(s.nextMillis(), 10)

	origin := s.ReturnOrigin(req.Origin)
	successURL := origin + confirmationPath + "?payment=success&order=" + orderNSU
	if req.SessionID != "" {
		successURL += "&session=" + url.QueryEscape(req.SessionID)
	}
	cancelURL := origin + paymentPath + "?payment=cancelled"

	items, err := json.Marshal([]CheckoutItem{checkoutItem})
	if err != nil {
		return CheckoutDescriptor{}, fmt.Errorf("encode checkout items: %w", err)
	}
	params := url.Values{}
	params.Set("items", string(items))
	params.Set("order_nsu", orderNSU)
	params.Set("redirect_url", successURL)
	if req.Customer.Name != "" {
		params.Set("customer_name", req.Customer.Name)
	}
	if req.Customer.Phone != "" {
		params.Set("customer_phone", req.Customer.Phone)
	}
	if req.Customer.CPF != "" {
		params.Set("customer_document", req.Customer.CPF)
	}

	return CheckoutDescriptor{
		CheckoutURL: s.checkoutURL + "/" + s.handle + "?" + params.Encode(),
		OrderNSU:    orderNSU,
		Item:        checkoutItem,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	}, nil
}

// nextMillis returns the wall clock in milliseconds, bumped so that two
// calls never return the same value.
func (s *CheckoutService) nextMillis() int64 {
	for {
		now := s.now().UnixMilli()
		last := s.lastMillis.Load()
		if now <= last {
			now = last + 1
		}
		if s.lastMillis.CompareAndSwap(last, now) {
			return now
		}
	}
}

// IsValidOrderNSU reports whether ref carries the site prefix.
func IsValidOrderNSU(ref string) bool {
	return strings.HasPrefix(ref, OrderPrefix)
}

// ExtractAppointmentID decodes SJB-<id>-<millis>. Anything else yields false.
func ExtractAppointmentID(ref string) (uint, bool) {
	if !IsValidOrderNSU(ref) {
		return 0, false
	}
	parts := strings.Split(ref, "-")
	if len(parts) < 2 {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// RequiresPayment: a fixed price or a mandatory down payment.
func RequiresPayment(item Chargeable) bool {
	return item.Price.Valid || item.RequiresDownPayment
}

// RequiresDownPaymentOnly decides whether the down payment, not the price,
// is charged.
func RequiresDownPaymentOnly(item Chargeable) bool {
	return item.RequiresDownPayment && (!item.Price.Valid || item.IsVariablePrice)
}

// PaymentResult is what the checkout sends back on the redirect.
type PaymentResult struct {
	Status         string `json:"status"`
	OrderNSU       string `json:"order_nsu"`
	TransactionNSU string `json:"transaction_nsu,omitempty"`
	Slug           string `json:"slug,omitempty"`
	SessionID      string `json:"-"`
	IsSuccess      bool   `json:"is_success"`
	IsCancelled    bool   `json:"is_cancelled"`
}

func ParsePaymentResult(query url.Values) PaymentResult {
	status := query.Get("payment")
	return PaymentResult{
		Status:         status,
		OrderNSU:       query.Get("order"),
		TransactionNSU: query.Get("transaction_nsu"),
		Slug:           query.Get("slug"),
		SessionID:      query.Get("session"),
		IsSuccess:      status == "success",
		IsCancelled:    status == "cancelled",
	}
}
