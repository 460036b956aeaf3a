package helpers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	phonePattern  = regexp.MustCompile(`^\+[0-9\s().\-]+$`)
	nonDigit      = regexp.MustCompile(`\D+`)
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
)

func ValidateName(name string) error {
	if utf8.RuneCountInString(name) > 191 {
		return fmt.Errorf("Name is too long (max 191 characters)")
	}
	return nil
}

func ValidateAge(age int) error {
	if age < 13 || age > 120 {
		return fmt.Errorf("Age must be between 13 and 120")
	}
	return nil
}

// ValidatePhone requires an international format with a leading country code.
func ValidatePhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("Phone is required")
	}
	if utf8.RuneCountInString(phone) > 30 {
		return fmt.Errorf("Phone is too long (max 30 characters)")
	}
	digits := len(nonDigit.ReplaceAllString(phone, ""))
	if digits < 7 || digits > 15 || !phonePattern.MatchString(phone) {
		return fmt.Errorf("Phone must include country code (7-15 digits, e.g., +1 555 123 4567)")
	}
	return nil
}

func ValidateLocation(location string) error {
	if location == "" {
		return fmt.Errorf("Location is required")
	}
	if utf8.RuneCountInString(location) > 191 {
		return fmt.Errorf("Location is too long (max 191 characters)")
	}
	if utf8.RuneCountInString(location) < 2 || !letterPattern.MatchString(location) {
		return fmt.Errorf("Location must include letters (e.g., City, Country)")
	}
	return nil
}

func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > 500 {
		return fmt.Errorf("Bio is too long (max 500 characters)")
	}
	return nil
}

// JoinErrors flattens validation errors into the single message the API
// returns with a 422.
func JoinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, ". ")
}
