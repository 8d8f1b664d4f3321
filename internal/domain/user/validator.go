package user

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const (
	MinLoginLen    = 3
	MaxLoginLen    = 32
	MinPasswordLen = 8

	// Отображаемое имя садовода показывается в лентах историй
	MaxDisplayNameLen = 120
)

// Validator проверяет учетные данные садовода
type Validator interface {
	ValidateRegister(login, password, displayName string) error
	ValidateLogin(login string) error
	ValidatePassword(password string) error
}

// CredentialsValidator — правила LeafWise: логин 3..32 знаков из букв,
// цифр и '_-.', пароль от 8 знаков четырех классов, отображаемое имя
// до 120 знаков без управляющих символов.
type CredentialsValidator struct{}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateRegister проверяет все поля регистрации разом
func (v *CredentialsValidator) ValidateRegister(login, password, displayName string) error {
	if err := v.ValidateLogin(login); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password: %w", err)
	}

	if err := v.validateDisplayName(displayName); err != nil {
		return fmt.Errorf("display_name: %w", err)
	}

	return nil
}

// ValidateLogin проверяет длину и алфавит логина
func (v *CredentialsValidator) ValidateLogin(login string) error {
	switch n := utf8.RuneCountInString(login); {
	case n < MinLoginLen:
		return fmt.Errorf("must be at least %d characters", MinLoginLen)
	case n > MaxLoginLen:
		return fmt.Errorf("must be at most %d characters", MaxLoginLen)
	}

	for _, r := range login {
		if !isLoginRune(r) {
			return fmt.Errorf("character %q is not allowed: use letters, digits, '_', '-' or '.'", r)
		}
	}

	return nil
}

// ValidatePassword требует строчную и прописную буквы, цифру и
// специальный символ
func (v *CredentialsValidator) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("must be at least %d characters", MinPasswordLen)
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	missing := ""
	switch {
	case !lower:
		missing = "a lowercase letter"
	case !upper:
		missing = "an uppercase letter"
	case !digit:
		missing = "a digit"
	case !special:
		missing = "a special character"
	}
	if missing != "" {
		return fmt.Errorf("must contain %s", missing)
	}

	return nil
}

// validateDisplayName допускает пустое имя; тогда в историях
// показывается логин
func (v *CredentialsValidator) validateDisplayName(name string) error {
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return fmt.Errorf("must be at most %d characters", MaxDisplayNameLen)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("control characters are not allowed")
		}
	}

	return nil
}

func isLoginRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}
