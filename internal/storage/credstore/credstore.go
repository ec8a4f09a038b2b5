// Package credstore holds broker tokens and secrets outside the main data
// blob, keyed by "{brokerID}-access-token" style keys.
package credstore

import (
	"errors"

	gokeyring "github.com/zalando/go-keyring"
)

// ServiceName is the keyring service name used for stored secrets.
// Uses reverse domain notation for proper namespacing.
const ServiceName = "io.zenithfin.zenith"

// ErrNotFound is returned when a credential is not present in the store.
var ErrNotFound = errors.New("credential not found")

// KeyringStore backs the credential store with the system keyring.
type KeyringStore struct{}

// NewKeyringStore creates a system keyring backed credential store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Get retrieves a credential from the system keyring.
func (s *KeyringStore) Get(key string) (string, error) {
	secret, err := gokeyring.Get(ServiceName, key)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set stores a credential in the system keyring.
func (s *KeyringStore) Set(key, value string) error {
	return gokeyring.Set(ServiceName, key, value)
}

// Delete removes a credential from the system keyring.
func (s *KeyringStore) Delete(key string) error {
	err := gokeyring.Delete(ServiceName, key)
	if err != nil && !errors.Is(err, gokeyring.ErrNotFound) {
		return err
	}
	return nil
}
