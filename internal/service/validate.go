// File: internal/service/validate.go
package service

import (
	"fmt"
	"regexp"
	"strings"

	"account-service/internal/model"

	"github.com/go-playground/validator/v10"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	validate = validator.New()
)

// Policy 集中欄位驗證規則，零值欄位落回預設值
type Policy struct {
	MinPasswordLength int
	MaxPasswordLength int
	MaxNameLength     int
	MaxEmailLength    int
}

func DefaultPolicy() Policy {
	return Policy{
		MinPasswordLength: 8,
		MaxPasswordLength: 128,
		MaxNameLength:     50,
		MaxEmailLength:    254,
	}
}

// NormalizeEmail 去除前後空白並轉小寫，存檔與查詢前都要先過這裡
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p Policy) ValidateName(name string) error {
	maxLen := p.MaxNameLength
	if maxLen <= 0 {
		maxLen = 50
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}
	if len(name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters long", model.ErrInvalidInput)
	}
	if len(name) > maxLen {
		return fmt.Errorf("%w: name must be less than %d characters", model.ErrInvalidInput, maxLen)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name contains invalid characters", model.ErrInvalidInput)
	}
	return nil
}

// ValidateEmail 檢查已正規化的 email
func (p Policy) ValidateEmail(email string) error {
	maxLen := p.MaxEmailLength
	if maxLen <= 0 {
		maxLen = 254
	}

	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}
	if len(email) > maxLen {
		return fmt.Errorf("%w: email address is too long", model.ErrInvalidInput)
	}
	if err := validate.Var(email, "email"); err != nil {
		return fmt.Errorf("%w: invalid email format", model.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", model.ErrInvalidInput)
	}
	return nil
}

func (p Policy) ValidatePassword(password string) error {
	minLen := p.MinPasswordLength
	if minLen <= 0 {
		minLen = 8
	}
	maxLen := p.MaxPasswordLength
	if maxLen <= 0 {
		maxLen = 128
	}

	if password == "" {
		return fmt.Errorf("%w: password is required", model.ErrInvalidInput)
	}
	if len(password) < minLen {
		return fmt.Errorf("%w: password must be at least %d characters long", model.ErrInvalidInput, minLen)
	}
	if len(password) > maxLen {
		return fmt.Errorf("%w: password must be less than %d characters", model.ErrInvalidInput, maxLen)
	}
	if !upperPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", model.ErrInvalidInput)
	}
	if !lowerPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", model.ErrInvalidInput)
	}
	if !digitPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least one number", model.ErrInvalidInput)
	}
	if !specialPattern.MatchString(password) {
		return fmt.Errorf("%w: password must contain at least one special character", model.ErrInvalidInput)
	}
	return nil
}
