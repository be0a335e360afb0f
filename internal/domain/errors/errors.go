package errors

import "errors"

// Sentinel errors for the authorization pipeline. Handlers map classes to
// HTTP status: authentication errors to 401, tenant errors to 403. Anything
// else is internal (500).

// Authentication failures. Distinguished for logs and tests; clients see 401.
var (
	ErrTokenMalformed        = errors.New("malformed bearer token")
	ErrTokenSignatureInvalid = errors.New("token signature verification failed")
	ErrTokenIssuerMismatch   = errors.New("token issuer or audience mismatch")
	ErrTokenExpired          = errors.New("token expired")
	ErrIdentityNotFound      = errors.New("identity not found")
	ErrIdentityInactive      = errors.New("identity deactivated")
)

// Tenant resolution failures. All map to 403 externally; the specific reason
// goes to the error list, never to a distinct status, so membership existence
// is not leaked to callers probing organization ids.
var (
	ErrMissingOrInvalidOrgHeader = errors.New("missing or invalid organization header")
	ErrNotAMember                = errors.New("not a member of the requested organization")
	ErrMembershipInactive        = errors.New("membership in the requested organization is inactive")
)

// IsAuthError reports whether err belongs to the authentication class.
func IsAuthError(err error) bool {
	for _, target := range []error{
		ErrTokenMalformed,
		ErrTokenSignatureInvalid,
		ErrTokenIssuerMismatch,
		ErrTokenExpired,
		ErrIdentityNotFound,
		ErrIdentityInactive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTenantError reports whether err belongs to the tenant resolution class.
func IsTenantError(err error) bool {
	for _, target := range []error{
		ErrMissingOrInvalidOrgHeader,
		ErrNotAMember,
		ErrMembershipInactive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Reason returns a stable machine-readable reason string for a pipeline
// error, suitable for the response error list and audit events.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMalformed):
		return "token_malformed"
	case errors.Is(err, ErrTokenSignatureInvalid):
		return "token_signature_invalid"
	case errors.Is(err, ErrTokenIssuerMismatch):
		return "token_issuer_mismatch"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrIdentityNotFound):
		return "identity_not_found"
	case errors.Is(err, ErrIdentityInactive):
		return "identity_inactive"
	case errors.Is(err, ErrMissingOrInvalidOrgHeader):
		return "missing_or_invalid_organization_header"
	case errors.Is(err, ErrNotAMember):
		return "not_a_member"
	case errors.Is(err, ErrMembershipInactive):
		return "membership_inactive"
	}
	return "internal_error"
}
