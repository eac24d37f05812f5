package apperrors

import (
	"net/http"
)

// Factories and predeclared variables for the PITCHLY business domains.

// ErrNotFound converts a repository not-found (e.g. gorm.ErrRecordNotFound)
// into a 404. Ownership misses use the same factory on purpose: a caller can
// never learn whether a foreign record exists.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrUpstream wraps a failure from an external collaborator (AI provider,
// payment provider, SMTP). The caller sees a generic retry suggestion; the
// wrapped detail only reaches the logs.
func ErrUpstream(err error, domain string) *AppError {
	return Wrap(err, CodeExternalServiceError, domain,
		"The service is temporarily unavailable. Please try again.", http.StatusBadGateway)
}

// --- Entitlement & subscriptions ---

// ErrProposalLimit signals an exhausted proposal quota. Handlers decorate it
// with the subscription snapshot and the upgrade prompt.
var ErrProposalLimit = New(
	CodeLimitExceeded,
	"subscription",
	"You have reached your proposal limit for this billing period",
	http.StatusForbidden,
)

// ErrTierRestricted builds the tier-upgrade-required error for a status (or
// feature) outside the caller's plan.
func ErrTierRestricted(message string) *AppError {
	return New(CodeTierRestricted, "subscription", message, http.StatusBadRequest)
}

var ErrSubscriptionCancelled = New(
	CodeInvalidOperation,
	"subscription",
	"Subscription is already cancelled",
	http.StatusBadRequest,
)

var ErrInvalidPaymentAmount = New(
	CodeConflict,
	"billing",
	"Invalid payment amount",
	http.StatusConflict,
)

var ErrPaymentProvider = New(
	CodeExternalServiceError,
	"billing",
	"Payment provider error",
	http.StatusServiceUnavailable,
)

// --- Generation ---

// ErrGenerationFailed covers AI-provider failures, including provider-side
// quota/billing errors. Distinct from the entitlement limit above.
func ErrGenerationFailed(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "generation",
		"Proposal generation failed. Please try again.", http.StatusBadGateway)
}

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// --- Locale ---

func ErrUnsupportedLocale(kind, code string) *AppError {
	return New(CodeValidationFailed, "locale",
		"Unsupported "+kind+": "+code, http.StatusBadRequest)
}
