// Package whatsapp builds click-to-chat links (https://wa.me).
package whatsapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const baseURL = "https://wa.me/"

// ErrInvalidPhone is returned when the phone has no usable digits.
var ErrInvalidPhone = errors.New("whatsapp: invalid phone number")

// NormalizePhone keeps only digits. Nine-digit Peruvian mobile numbers get
// the 51 country code.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if len(digits) == 9 && strings.HasPrefix(digits, "9") {
		digits = "51" + digits
	}
	if len(digits) < 8 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}

// Link returns a wa.me URL for phone with message prefilled.
func Link(phone, message string) (string, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	link := baseURL + digits
	if message = strings.TrimSpace(message); message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, nil
}

// Inquiry is the prefilled text for a product inquiry.
type Inquiry struct {
	CustomerName string
	Company      string
	ProductName  string
	Quantity     int
	Message      string
}

// Text renders the inquiry as a WhatsApp message.
func (i Inquiry) Text() string {
	var lines []string
	greeting := "Hola, quisiera información"
	if i.ProductName != "" {
		greeting = "Hola, quisiera una cotización de " + i.ProductName
		if i.Quantity > 0 {
			greeting += fmt.Sprintf(" (cantidad: %d)", i.Quantity)
		}
	}
	lines = append(lines, greeting+".")
	if i.CustomerName != "" {
		who := "Soy " + i.CustomerName
		if i.Company != "" {
			who += " de " + i.Company
		}
		lines = append(lines, who+".")
	}
	if m := strings.TrimSpace(i.Message); m != "" {
		lines = append(lines, m)
	}
	return strings.Join(lines, "\n")
}
