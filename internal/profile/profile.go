// Package profile stores the default subject query, either inside the
// config file or inside the operating system keyring.
package profile

import (
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"

	"github.com/jkriig/privacy-sweep/internal/config"
)

// KeyringService groups our secrets in the OS keychain.
const KeyringService = "privacysweep"

// keyringAccount is the account key holding the default query.
const keyringAccount = "default-query"

// Load returns the saved default query. An empty string means no
// profile has been saved yet.
func Load(c *config.Config) (string, error) {
	if c.Profile.UseKeyring {
		secret, err := keyring.Get(KeyringService, keyringAccount)
		if err == keyring.ErrNotFound {
			return "", nil
		}
		if err != nil {
			return "", errors.Wrap(err, "reading profile from the keyring")
		}
		return secret, nil
	}
	return c.Profile.DefaultQuery, nil
}

// Save stores query as the default profile. With useKeyring the query
// goes into the OS keyring and only the storage choice is written to
// the config file, keeping the subject details out of plaintext.
func Save(c *config.Config, query string, useKeyring bool) error {
	if useKeyring {
		if err := keyring.Set(KeyringService, keyringAccount, query); err != nil {
			return errors.Wrap(err, "writing profile to the keyring")
		}
	}
	c.Lock()
	c.Profile.UseKeyring = useKeyring
	if useKeyring {
		c.Profile.DefaultQuery = ""
	} else {
		c.Profile.DefaultQuery = query
	}
	c.Unlock()
	return c.Write()
}

// Remove deletes the saved profile from the keyring and the config.
func Remove(c *config.Config) error {
	if c.Profile.UseKeyring {
		err := keyring.Delete(KeyringService, keyringAccount)
		if err != nil && err != keyring.ErrNotFound {
			return errors.Wrap(err, "deleting profile from the keyring")
		}
	}
	c.Lock()
	c.Profile.DefaultQuery = ""
	c.Profile.UseKeyring = false
	c.Unlock()
	return c.Write()
}
