// Package validation holds the pure field checks shared by the handlers.
// Every function either returns nil or a descriptive error that the caller
// maps to a 400 response; nothing here touches the network or the database.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/splitmint/backend/internal/models"
)

const dateLayout = "2006-01-02"

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp|svg)$`)
	dataURLRe  = regexp.MustCompile(`(?i)^data:image/(png|jpeg|jpg|gif|bmp|webp);base64,`)
)

// Name checks a 3-20 character person or field name.
func Name(field, s string) error {
	if len(s) < 3 || len(s) > 20 {
		return fmt.Errorf("%s must be between 3 and 20 characters", field)
	}
	return nil
}

func Email(s string) error {
	if !emailRe.MatchString(s) {
		return errors.New("invalid email address")
	}
	return nil
}

func Phone(s string) error {
	if !phoneRe.MatchString(s) {
		return errors.New("invalid phone number")
	}
	return nil
}

func Gender(s string) error {
	switch strings.ToLower(s) {
	case "male", "female", "other":
		return nil
	}
	return errors.New("gender must be one of male, female or other")
}

// StrongPassword requires at least 8 characters with an upper, a lower,
// a digit and a symbol.
func StrongPassword(s string) error {
	if len(s) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return errors.New("password must contain upper and lower case letters, a digit and a symbol")
	}
	return nil
}

// DateOfBirth accepts YYYY-MM-DD, not in the future, age between 16 and 80.
func DateOfBirth(s string) error {
	dob, err := time.Parse(dateLayout, s)
	if err != nil {
		return errors.New("date of birth must be in YYYY-MM-DD format")
	}
	now := time.Now()
	if dob.After(now) {
		return errors.New("date of birth cannot be in the future")
	}
	age := now.Sub(dob).Hours() / 24 / 365.25
	if age < 16 || age > 80 {
		return errors.New("age must be between 16 and 80")
	}
	return nil
}

// Date accepts YYYY-MM-DD and rejects future dates.
func Date(s string) error {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	today := time.Now().Truncate(24 * time.Hour)
	if d.After(today.Add(24*time.Hour - time.Nanosecond)) {
		return errors.New("date cannot be in the future")
	}
	return nil
}

// Today returns the current date in the wire format.
func Today() string {
	return time.Now().Format(dateLayout)
}

func Amount(cents int64) error {
	if cents <= 0 {
		return errors.New("amount must be a positive number of cents")
	}
	return nil
}

func Description(s string) error {
	if len(s) < 10 {
		return errors.New("description must be at least 10 characters")
	}
	return nil
}

func Category(s string) error {
	if !models.ValidCategory(s) {
		return fmt.Errorf("%q is not a valid category", s)
	}
	return nil
}

// IsDataURL reports whether s is an inline base64 image payload that must
// be uploaded before persistence.
func IsDataURL(s string) bool {
	return dataURLRe.MatchString(s)
}

// ImageRef accepts either an HTTP(S) URL ending in a known image extension
// or an inline base64 image payload.
func ImageRef(s string) error {
	if IsDataURL(s) {
		return nil
	}
	u, err := url.Parse(s)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && imageExtRe.MatchString(u.Path) {
		return nil
	}
	return errors.New("image must be an image URL or an inline base64 image")
}
