package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorClasses(t *testing.T) {
	authErrs := []error{
		ErrTokenMalformed,
		ErrTokenSignatureInvalid,
		ErrTokenIssuerMismatch,
		ErrTokenExpired,
		ErrIdentityNotFound,
		ErrIdentityInactive,
	}
	for _, err := range authErrs {
		if !IsAuthError(err) {
			t.Errorf("%v should be an auth error", err)
		}
		if IsTenantError(err) {
			t.Errorf("%v must not be a tenant error", err)
		}
	}

	tenantErrs := []error{
		ErrMissingOrInvalidOrgHeader,
		ErrNotAMember,
		ErrMembershipInactive,
	}
	for _, err := range tenantErrs {
		if !IsTenantError(err) {
			t.Errorf("%v should be a tenant error", err)
		}
		if IsAuthError(err) {
			t.Errorf("%v must not be an auth error", err)
		}
	}
}

func TestUnknownErrorBelongsToNoClass(t *testing.T) {
	err := stderrors.New("connection timeout")
	if IsAuthError(err) || IsTenantError(err) {
		t.Error("arbitrary errors must be internal, not auth or tenant")
	}
	if Reason(err) != "internal_error" {
		t.Errorf("unexpected reason %q", Reason(err))
	}
}

func TestReasonStrings(t *testing.T) {
	cases := map[error]string{
		ErrTokenExpired:              "token_expired",
		ErrNotAMember:                "not_a_member",
		ErrMembershipInactive:        "membership_inactive",
		ErrMissingOrInvalidOrgHeader: "missing_or_invalid_organization_header",
	}
	for err, want := range cases {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}
