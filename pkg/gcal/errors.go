package gcal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrAuthExpired = errors.New("access token expired or invalid")
var ErrPermissionDenied = errors.New("calendar permission denied")

// APIError carries the upstream error body so callers can inspect it.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("calendar api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("calendar api error (%d)", e.StatusCode)
}

type upstreamError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func deniedReason(reason string) bool {
	switch reason {
	case "insufficientPermissions", "forbidden", "accessNotConfigured":
		return true
	default:
		return false
	}
}

func errorFromResponse(res *http.Response) error {
	body, _ := io.ReadAll(res.Body)

	var parsed upstreamError
	//nolint:errcheck //a non-JSON body just leaves the fields empty
	json.Unmarshal(body, &parsed)

	reason := ""
	if len(parsed.Error.Errors) > 0 {
		reason = parsed.Error.Errors[0].Reason
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrAuthExpired, parsed.Error.Message)
	case res.StatusCode == http.StatusForbidden && deniedReason(reason):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, parsed.Error.Message)
	default:
		return &APIError{
			StatusCode: res.StatusCode,
			Reason:     reason,
			Message:    parsed.Error.Message,
			Body:       string(body),
		}
	}
}
