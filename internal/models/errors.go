package models

import (
	"errors"
	"fmt"
)

// ErrNoBrokersConnected is returned when a sync is requested before any
// broker has been connected. Partial broker failures are reported in the
// SyncReport; only this total inability to run is an error.
var ErrNoBrokersConnected = errors.New("no connected brokers: connect to at least one broker first")

// CredentialError reports missing or malformed credential input. It is the
// only broker error raised before any network I/O.
type CredentialError struct {
	Broker BrokerID
	Reason string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: invalid credentials: %s", e.Broker.DisplayName(), e.Reason)
}

// AuthenticationError reports a failed broker authentication. Rejected is
// true when the remote API explicitly rejected the credentials, false for
// transport failures or malformed auth responses.
type AuthenticationError struct {
	Broker   BrokerID
	Reason   string
	Rejected bool
	Err      error
}

func (e *AuthenticationError) Error() string {
	if e.Rejected {
		return fmt.Sprintf("%s: credentials rejected: %s", e.Broker.DisplayName(), e.Reason)
	}
	return fmt.Sprintf("%s: authentication failed: %s", e.Broker.DisplayName(), e.Reason)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// RefreshError reports a failed refresh-token exchange. Callers must fall
// back to a full authenticate on this error.
type RefreshError struct {
	Broker BrokerID
	Reason string
	Err    error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%s: token refresh failed: %s", e.Broker.DisplayName(), e.Reason)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// FetchError reports a failed holdings retrieval after authentication.
// AuthExpired is true for 401-equivalent rejections of the access token,
// which callers may treat as a signal to refresh or re-authenticate.
type FetchError struct {
	Broker      BrokerID
	Reason      string
	AuthExpired bool
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: failed to fetch holdings: %s", e.Broker.DisplayName(), e.Reason)
}

func (e *FetchError) Unwrap() error { return e.Err }
