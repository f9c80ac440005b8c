// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// OnlyDigits strips every non-digit character.
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// CleanPhone returns the canonical digits-only phone.
func CleanPhone(phone string) string { return OnlyDigits(phone) }

// CleanCPF returns the canonical digits-only CPF.
func CleanCPF(cpf string) string { return OnlyDigits(cpf) }

// ValidatePhone accepts Brazilian landlines (10 digits) and mobiles (11 digits).
func ValidatePhone(phone string) bool {
	n := len(CleanPhone(phone))
	return n == 10 || n == 11
}

// FormatPhone renders (DD) DDDDD-DDDD or (DD) DDDD-DDDD. Anything else is
// returned as given.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	d := CleanPhone(phone)
	switch len(d) {
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	}
	return phone
}

// PhoneToE164 prefixes the Brazilian country code.
func PhoneToE164(phone string) string {
	d := CleanPhone(phone)
	if d == "" {
		return ""
	}
	if strings.HasPrefix(d, "55") && len(d) > 11 {
		return "+" + d
	}
	return "+55" + d
}

// ValidateCPF checks length, repeated digits and both mod-11 check digits.
func ValidateCPF(cpf string) bool {
	d := CleanCPF(cpf)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}
	return cpfCheckDigit(d[:9], 10) == int(d[9]-'0') &&
		cpfCheckDigit(d[:10], 11) == int(d[10]-'0')
}

func cpfCheckDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		r = 0
	}
	return r
}

// FormatCPF renders DDD.DDD.DDD-DD for 11 digits, otherwise the input.
func FormatCPF(cpf string) string {
	if cpf == "" {
		return ""
	}
	d := CleanCPF(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}
