package domain

import (
	"strconv"
	"strings"
	"time"
)

const maskedCardPrefix = "xxxx-xxxx-xxxx-"

// cardDigits strips everything that is not an ASCII digit.
func cardDigits(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LuhnValid reports whether number passes the Luhn checksum. Non-digit
// characters are ignored; fewer than two digits never validate.
func LuhnValid(number string) bool {
	digits := cardDigits(number)
	if len(digits) < 2 {
		return false
	}

	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// ParseCardExpiry parses an MM/YY expiry into the first day of that month
// (UTC, year 2000+YY).
func ParseCardExpiry(expiry string) (time.Time, error) {
	month, year, ok := strings.Cut(strings.TrimSpace(expiry), "/")
	if !ok || len(month) != 2 || len(year) != 2 {
		return time.Time{}, ErrInvalidCard
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, ErrInvalidCard
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 0 {
		return time.Time{}, ErrInvalidCard
	}
	return time.Date(2000+y, time.Month(m), 1, 0, 0, 0, 0, time.UTC), nil
}

// CardExpired reports whether the MM/YY expiry lies strictly before the
// calendar date of now.
func CardExpired(expiry string, now time.Time) (bool, error) {
	exp, err := ParseCardExpiry(expiry)
	if err != nil {
		return false, err
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return exp.Before(today), nil
}

// MaskCardNumber keeps only the last four digits: xxxx-xxxx-xxxx-NNNN.
func MaskCardNumber(number string) string {
	digits := cardDigits(number)
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return maskedCardPrefix + digits
}
