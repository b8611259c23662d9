package config

import (
	"errors"
	"fmt"
	"strings"

	"go-jobpilot-automation/internal/site"

	"github.com/zalando/go-keyring"
)

// KeyringService groups site passwords in the OS keychain.
const KeyringService = "jobpilot"

// KeyringAccount is the keychain account a site password is stored under.
func KeyringAccount(s site.Site, username string) string {
	return fmt.Sprintf("%s:%s", string(s), strings.TrimSpace(username))
}

// CredentialFor returns the login for s. A username without a password in the
// config is completed from the OS keychain.
func (c *Config) CredentialFor(s site.Site) (Credential, bool) {
	cred, ok := c.Credentials[string(s)]
	if !ok {
		for name, v := range c.Credentials {
			if parsed, valid := site.Parse(name); valid && parsed == s {
				cred, ok = v, true
				break
			}
		}
	}
	if !ok || strings.TrimSpace(cred.Username) == "" {
		return Credential{}, false
	}

	if cred.Password == "" {
		pw, err := keyring.Get(KeyringService, KeyringAccount(s, cred.Username))
		if err != nil || strings.TrimSpace(pw) == "" {
			return Credential{}, false
		}
		cred.Password = pw
	}
	return cred, true
}

func SetPassword(s site.Site, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, KeyringAccount(s, username), password)
}

func DeletePassword(s site.Site, username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("username is empty")
	}
	return keyring.Delete(KeyringService, KeyringAccount(s, username))
}
