package connection

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/raghuporumamila/generic-bigquery/internal/common"
	"github.com/raghuporumamila/generic-bigquery/pkg/errors"
	"github.com/raghuporumamila/generic-bigquery/pkg/models"
)

const keyringService = "bqmerge"

// Credentials is the resolved form of a connection identifier. An
// empty CredentialsFile means application-default credentials.
type Credentials struct {
	Name            string
	CredentialsFile string
}

// Resolver maps connection identifiers from the workflow definition
// to warehouse credentials. The identifier stays opaque to the
// registrar; only the executor resolves it, right before a run.
type Resolver struct {
	connections map[string]models.Connection
}

// NewResolver creates a resolver over the configured connections
func NewResolver(connections []models.Connection) *Resolver {
	byName := make(map[string]models.Connection, len(connections))
	for _, conn := range connections {
		byName[conn.Name] = conn
	}
	return &Resolver{connections: byName}
}

// Resolve looks up a connection by name. Unknown names fall back to
// application-default credentials only for the conventional default
// identifier; anything else is a configuration mistake.
func (r *Resolver) Resolve(name string) (*Credentials, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.InvalidArgument("connection", "must not be empty")
	}

	conn, ok := r.connections[name]
	if !ok {
		if name == "google_cloud_default" {
			return &Credentials{Name: name}, nil
		}
		return nil, errors.New(errors.ErrCodeConnectionNotFound,
			fmt.Sprintf("connection %q is not configured", name)).
			WithSuggestions(
				"Add the connection to the connections section of the config",
				"Use 'google_cloud_default' for application-default credentials",
			)
	}

	if conn.UseKeyring {
		path, err := keyring.Get(keyringService, conn.Name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeKeyringUnavailable,
				fmt.Sprintf("failed to read credentials for connection %q from the OS keyring", name))
		}
		conn.CredentialsFile = path
	}

	if conn.CredentialsFile == "" {
		return &Credentials{Name: name}, nil
	}

	cleaned, err := common.CleanPath(conn.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCredentialsMissing,
			fmt.Sprintf("invalid credentials file for connection %q", name))
	}
	if _, err := os.Stat(cleaned); err != nil {
		return nil, errors.New(errors.ErrCodeCredentialsMissing,
			fmt.Sprintf("credentials file %s for connection %q does not exist", cleaned, name))
	}

	return &Credentials{Name: name, CredentialsFile: cleaned}, nil
}

// Store saves the credentials file path for a named connection in the
// OS keyring.
func Store(name, credentialsFile string) error {
	if err := keyring.Set(keyringService, name, credentialsFile); err != nil {
		return errors.Wrap(err, errors.ErrCodeKeyringUnavailable,
			fmt.Sprintf("failed to store credentials for connection %q", name))
	}
	return nil
}

// Delete removes a named connection's credentials from the OS keyring
func Delete(name string) error {
	if err := keyring.Delete(keyringService, name); err != nil {
		return errors.Wrap(err, errors.ErrCodeKeyringUnavailable,
			fmt.Sprintf("failed to delete credentials for connection %q", name))
	}
	return nil
}
