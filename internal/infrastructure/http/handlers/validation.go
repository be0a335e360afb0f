package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validationReasons flattens validator field errors into stable reason
// strings for the error list, e.g. "capability: oneof".
func validationReasons(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"invalid_request"}
	}
	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		reasons = append(reasons, strings.ToLower(fe.Field())+": "+fe.Tag())
	}
	return reasons
}
