package dto

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/pkg/apperror"
)

// vpaRe matches local@handle virtual payment addresses.
var vpaRe = regexp.MustCompile(`^[a-zA-Z0-9._\-]{2,256}@[a-zA-Z]{2,64}$`)

// ValidVPA reports whether s is a well-formed virtual payment address.
func ValidVPA(s string) bool {
	return vpaRe.MatchString(s)
}

// LuhnValid reports whether number passes the Luhn checksum. Spaces and
// dashes are ignored; anything else non-numeric fails.
func LuhnValid(number string) bool {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(number)
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry reports whether the MM/YYYY pair is parseable and not in the
// past. A card is valid through the last day of its expiry month.
func ValidExpiry(month, year string, now time.Time) bool {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	if y < 100 {
		y += 2000
	}

	endOfMonth := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return now.Before(endOfMonth)
}

// DetectCardNetwork infers the network from the number's leading digits.
func DetectCardNetwork(number string) string {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case hasPrefixInRange(digits, 51, 55) || hasPrefixInRange(digits, 2221, 2720):
		return "mastercard"
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return "amex"
	case strings.HasPrefix(digits, "60") || strings.HasPrefix(digits, "65") ||
		strings.HasPrefix(digits, "81") || strings.HasPrefix(digits, "82"):
		return "rupay"
	default:
		return "unknown"
	}
}

func hasPrefixInRange(digits string, lo, hi int) bool {
	width := len(strconv.Itoa(lo))
	if len(digits) < width {
		return false
	}
	prefix, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}

// ToParams validates the request's instrument details and reduces them to
// the storable form (card number never leaves this function).
func (r *CreatePaymentRequest) ToParams() (ports.CreatePaymentParams, error) {
	params := ports.CreatePaymentParams{OrderID: r.OrderID}

	switch domain.PaymentMethod(r.Method) {
	case domain.PaymentMethodUPI:
		if r.VPA == nil || !ValidVPA(*r.VPA) {
			return params, apperror.ErrInvalidVPA()
		}
		params.Method = domain.PaymentMethodUPI
		params.VPA = r.VPA

	case domain.PaymentMethodCard:
		if r.Card == nil {
			return params, apperror.Validation("Card details required")
		}
		if !LuhnValid(r.Card.Number) {
			return params, apperror.ErrInvalidCardNumber()
		}
		if !ValidExpiry(r.Card.ExpiryMonth, r.Card.ExpiryYear, time.Now()) {
			return params, apperror.ErrCardExpired()
		}
		digits := strings.NewReplacer(" ", "", "-", "").Replace(r.Card.Number)
		network := DetectCardNetwork(digits)
		last4 := digits[len(digits)-4:]
		params.Method = domain.PaymentMethodCard
		params.CardNetwork = &network
		params.CardLast4 = &last4

	default:
		return params, apperror.ErrInvalidPaymentMethod()
	}

	return params, nil
}
