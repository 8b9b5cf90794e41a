package httpclient

import (
	"errors"
	"fmt"
)

var (
	ErrNetworkTimeout = errors.New("network timeout")
	ErrNetwork        = errors.New("network error")
	ErrHTTPStatus     = errors.New("unexpected http status")
)

// ErrorKind classifies a failed fetch
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindTimeout
	KindStatus
)

// FetchError describes why a single GET failed
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("timeout fetching %s", e.URL)
	case KindStatus:
		return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
	default:
		return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is match the sentinel for the error kind
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetworkTimeout:
		return e.Kind == KindTimeout
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrHTTPStatus:
		return e.Kind == KindStatus
	}
	return false
}
