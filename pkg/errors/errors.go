package errors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	// Remaining is only set for CodeCooldownActive and CodePixelProtected,
	// in whole seconds.
	Remaining int64
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code so callers can use errors.Is with the
// sentinel values below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

const (
	CodeInsufficientBalance = "INSUFFICIENT_TOKENS"
	CodeCooldownActive      = "COOLDOWN_ACTIVE"
	CodeOutOfBounds         = "OUT_OF_BOUNDS"
	CodeInvalidColor        = "INVALID_COLOR"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidInput        = "INVALID_INPUT"
	CodePixelProtected      = "PIXEL_PROTECTED"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Matching is by code only, so an error
// built by a constructor below compares equal to its sentinel.
var (
	ErrInsufficientBalance = &AppError{Code: CodeInsufficientBalance, Message: "insufficient token balance"}
	ErrCooldownActive      = &AppError{Code: CodeCooldownActive, Message: "placement cooldown active"}
	ErrOutOfBounds         = &AppError{Code: CodeOutOfBounds, Message: "coordinate outside grid"}
	ErrInvalidColor        = &AppError{Code: CodeInvalidColor, Message: "color not in project palette"}
	ErrInvalidAmount       = &AppError{Code: CodeInvalidAmount, Message: "amount must be positive"}
	ErrPixelProtected      = &AppError{Code: CodePixelProtected, Message: "pixel is protected"}
	ErrNotFound            = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized        = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
)

func InsufficientBalance(balance, required int64) *AppError {
	return &AppError{
		Code:    CodeInsufficientBalance,
		Message: fmt.Sprintf("balance %d, need %d", balance, required),
	}
}

func CooldownActive(remaining int64) *AppError {
	return &AppError{
		Code:      CodeCooldownActive,
		Message:   fmt.Sprintf("cooldown active for another %ds", remaining),
		Remaining: remaining,
	}
}

func OutOfBounds(x, y, gridSize int) *AppError {
	return &AppError{
		Code:    CodeOutOfBounds,
		Message: fmt.Sprintf("position (%d, %d) outside %dx%d grid", x, y, gridSize, gridSize),
	}
}

func InvalidColor(color string) *AppError {
	return &AppError{
		Code:    CodeInvalidColor,
		Message: fmt.Sprintf("color %q not in project palette", color),
	}
}

func InvalidAmount(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidAmount,
		Message: message,
	}
}

func PixelProtected(remaining int64) *AppError {
	return &AppError{
		Code:      CodePixelProtected,
		Message:   fmt.Sprintf("pixel protected for another %ds", remaining),
		Remaining: remaining,
	}
}

func NotFound(what string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: what + " not found",
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// CodeOf extracts the AppError code, or CodeInternal for unexpected errors
// (storage failures and the like).
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
