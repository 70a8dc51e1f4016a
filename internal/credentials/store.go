package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"gitlab.com/chit-chat/kris/internal/configs"
)

const (
	serviceName = "kris"
	dataKey     = "data"
)

// Account holds everything needed to talk to the platform API.
type Account struct {
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// Store persists the account in a system keyring.
type Store struct {
	ring keyring.Keyring
}

// Open opens the default keyring for the kris service. The file backend
// (used when no native keyring is available) lives under the kris config
// directory.
func Open() (*Store, error) {
	return OpenWithConfig(keyring.Config{
		ServiceName:      serviceName,
		FileDir:          filepath.Join(configs.UserKrisSettings.UserConfigsPath, "keyring"),
		FilePasswordFunc: keyring.FixedStringPrompt("kris credential store"),
	})
}

// OpenWithConfig opens a keyring with an explicit configuration.
// Tests use this to pin the file backend to a temporary directory.
func OpenWithConfig(cfg keyring.Config) (*Store, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// Account returns the stored account. A store that has never been written
// returns a zero Account and no error.
func (s *Store) Account() (Account, error) {
	item, err := s.ring.Get(dataKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Account{}, nil
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var account Account
	if err := json.Unmarshal(item.Data, &account); err != nil {
		return Account{}, fmt.Errorf("failed to decode credentials: %w", err)
	}
	return account, nil
}

// SaveAccount stores the account, replacing any previous one.
func (s *Store) SaveAccount(account Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:   dataKey,
		Label: "kris credentials",
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// SetAccessToken updates only the access token of the stored account.
func (s *Store) SetAccessToken(token string) error {
	account, err := s.Account()
	if err != nil {
		return err
	}
	account.AccessToken = token
	return s.SaveAccount(account)
}

// IsAuthorized reports whether credentials have been stored.
// A stored email counts as authorized even before a token is fetched.
func (s *Store) IsAuthorized() bool {
	account, err := s.Account()
	if err != nil {
		return false
	}
	return account.Email != ""
}
