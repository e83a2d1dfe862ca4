package google

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/calsync/internal/core/domain"
)

// ErrNoToken indicates no OAuth token has been stored yet.
var ErrNoToken = errors.New("google: no token stored, run 'calsync account login'")

// IsSyncTokenExpired returns true if the error indicates an expired sync token (410 GONE).
func IsSyncTokenExpired(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusGone
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	status, ok := StatusCode(err)
	return ok && status == http.StatusTooManyRequests
}

// StatusCode extracts the HTTP status from a Google API error.
func StatusCode(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	if status, ok := domain.RemoteStatus(err); ok {
		return status, true
	}
	return 0, false
}

// WrapError converts a Google API error into a domain.RemoteError carrying
// the response status. Transport failures, including deadlines, carry no
// response and are reported as 408 Request Timeout. Context cancellation is
// returned unchanged so callers can tell it apart from a provider failure.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoToken) {
		return domain.NewRemoteError(http.StatusUnauthorized, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return domain.NewRemoteError(gerr.Code, err)
	}

	// A rejected token refresh is an authentication failure unless the
	// token endpoint itself is failing.
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.Response != nil && rerr.Response.StatusCode >= http.StatusInternalServerError {
			return domain.NewRemoteError(rerr.Response.StatusCode, err)
		}
		return domain.NewRemoteError(http.StatusUnauthorized, err)
	}

	return domain.NewRemoteError(http.StatusRequestTimeout, err)
}
