package play

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/code-payments/flipchat-billing/billing"
)

// errNotOwned marks purchases the buyer no longer owns: cancelled, expired
// or already consumed.
var errNotOwned = errors.New("purchase not owned")

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}

// toResultError maps a Play Developer API failure onto a billing result.
func toResultError(err error) error {
	if err == nil {
		return nil
	}

	var resultErr *billing.ResultError
	if errors.As(err, &resultErr) {
		return err
	}

	code := billing.ResponseCodeNetworkError
	var apiErr *googleapi.Error
	switch {
	case errors.Is(err, errNotOwned):
		code = billing.ResponseCodeItemNotOwned
	case errors.As(err, &apiErr):
		code = codeForStatus(apiErr.Code)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = billing.ResponseCodeServiceDisconnected
	}

	return billing.Result{Code: code, DebugMessage: err.Error()}.Err()
}

func codeForStatus(status int) billing.ResponseCode {
	switch {
	case status == http.StatusNotFound, status == http.StatusGone:
		return billing.ResponseCodeItemNotOwned
	case status == http.StatusBadRequest:
		return billing.ResponseCodeDeveloperError
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return billing.ResponseCodeBillingUnavailable
	case status == http.StatusConflict:
		return billing.ResponseCodeItemAlreadyOwned
	case status >= 500:
		return billing.ResponseCodeServiceUnavailable
	default:
		return billing.ResponseCodeError
	}
}
