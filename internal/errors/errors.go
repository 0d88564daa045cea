// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	// Rule violations raised by the domain and campaign services.
	ErrorTypeDomain     ErrorType = "domain_error"
	ErrorTypeEquip      ErrorType = "equip_error"
	ErrorTypeQuest      ErrorType = "quest_error"
	ErrorTypePermission ErrorType = "permission_error"

	// Infrastructure and transport.
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeError        ErrorType = "processing_error"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeConflict     ErrorType = "conflict"
)

// AppError is the single error shape used across the service.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with the code derived from its type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewDomainError reports a generic invalid operation.
func NewDomainError(message string) *AppError {
	return NewAppError(ErrorTypeDomain, message, nil)
}

// NewEquipError reports an equip or slot rule violation.
func NewEquipError(message string) *AppError {
	return NewAppError(ErrorTypeEquip, message, nil)
}

// NewQuestError reports quest duplication or a missing quest.
func NewQuestError(message string) *AppError {
	return NewAppError(ErrorTypeQuest, message, nil)
}

// NewPermissionError reports a wrong role or a frozen character.
func NewPermissionError(message string) *AppError {
	return NewAppError(ErrorTypePermission, message, nil)
}

func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

func NewNotFoundError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeNotFound, message, originalError)
}

func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

func NewUnauthorizedError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnauthorized, message, originalError)
}

func NewConflictError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConflict, message, originalError)
}

func typeOf(err error) (ErrorType, bool) {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type, true
	}
	return "", false
}

// IsDomainError reports whether err is a domain rule violation. Equip and
// quest errors are specialisations of the domain kind and match too.
func IsDomainError(err error) bool {
	t, ok := typeOf(err)
	return ok && (t == ErrorTypeDomain || t == ErrorTypeEquip || t == ErrorTypeQuest)
}

func IsEquipError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeEquip
}

func IsQuestError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeQuest
}

func IsPermissionError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypePermission
}

func IsValidationError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeValidation
}

func IsNotFoundError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeNotFound
}

func IsUnauthorizedError(err error) bool {
	t, ok := typeOf(err)
	return ok && t == ErrorTypeUnauthorized
}

func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeDomain:
		return "DOMAIN_ERROR"
	case ErrorTypeEquip:
		return "EQUIP_ERROR"
	case ErrorTypeQuest:
		return "QUEST_ERROR"
	case ErrorTypePermission:
		return "FORBIDDEN"
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	case ErrorTypeUnauthorized:
		return "UNAUTHORIZED"
	case ErrorTypeConflict:
		return "CONFLICT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// CodeOf returns the user facing code of err, or UNKNOWN_ERROR.
func CodeOf(err error) string {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Code
	}
	return "UNKNOWN_ERROR"
}

// WrapError prefixes err with message, keeping the type of an existing AppError.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError.Err,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
