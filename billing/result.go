package billing

import (
	"errors"
	"fmt"
)

var ErrNotConnected = errors.New("billing client not connected")

// ResponseCode mirrors the store service's result codes.
type ResponseCode int

const (
	ResponseCodeOK                  ResponseCode = 0
	ResponseCodeUserCanceled        ResponseCode = 1
	ResponseCodeServiceUnavailable  ResponseCode = 2
	ResponseCodeBillingUnavailable  ResponseCode = 3
	ResponseCodeItemUnavailable     ResponseCode = 4
	ResponseCodeDeveloperError      ResponseCode = 5
	ResponseCodeError               ResponseCode = 6
	ResponseCodeItemAlreadyOwned    ResponseCode = 7
	ResponseCodeItemNotOwned        ResponseCode = 8
	ResponseCodeNetworkError        ResponseCode = 12
	ResponseCodeServiceDisconnected ResponseCode = -1
	ResponseCodeFeatureNotSupported ResponseCode = -2
)

func (c ResponseCode) String() string {
	switch c {
	case ResponseCodeOK:
		return "OK"
	case ResponseCodeUserCanceled:
		return "USER_CANCELED"
	case ResponseCodeServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case ResponseCodeBillingUnavailable:
		return "BILLING_UNAVAILABLE"
	case ResponseCodeItemUnavailable:
		return "ITEM_UNAVAILABLE"
	case ResponseCodeDeveloperError:
		return "DEVELOPER_ERROR"
	case ResponseCodeError:
		return "ERROR"
	case ResponseCodeItemAlreadyOwned:
		return "ITEM_ALREADY_OWNED"
	case ResponseCodeItemNotOwned:
		return "ITEM_NOT_OWNED"
	case ResponseCodeNetworkError:
		return "NETWORK_ERROR"
	case ResponseCodeServiceDisconnected:
		return "SERVICE_DISCONNECTED"
	case ResponseCodeFeatureNotSupported:
		return "FEATURE_NOT_SUPPORTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// Result is the store service's outcome for a single call.
type Result struct {
	Code         ResponseCode
	DebugMessage string
}

func (r Result) OK() bool {
	return r.Code == ResponseCodeOK
}

// Err returns nil for an OK result and a *ResultError otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ResultError{Result: r}
}

type ResultError struct {
	Result Result
}

func (e *ResultError) Error() string {
	if e.Result.DebugMessage == "" {
		return fmt.Sprintf("billing result %s", e.Result.Code)
	}
	return fmt.Sprintf("billing result %s: %s", e.Result.Code, e.Result.DebugMessage)
}

// ResultFromError recovers the store service result carried by err. Errors
// that did not originate from the store service map to ResponseCodeError.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Code: ResponseCodeOK}
	}

	var resultErr *ResultError
	if errors.As(err, &resultErr) {
		return resultErr.Result
	}

	return Result{Code: ResponseCodeError, DebugMessage: err.Error()}
}
