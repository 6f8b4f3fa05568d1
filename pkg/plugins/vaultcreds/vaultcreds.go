// Package vaultcreds fetches sink credentials — a NATS auth token and
// optional TLS material — from a HashiCorp Vault KV mount at sink
// construction time, rather than using Vault itself as a log
// destination.
package vaultcreds

import (
	"context"
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"
	"github.com/mitchellh/mapstructure"
)

// NATSCredentials is the decoded shape of a KV secret used to
// authenticate a natssink.Plugin connection.
type NATSCredentials struct {
	Token      string `mapstructure:"token"`
	CACert     string `mapstructure:"ca_cert"`
	ClientCert string `mapstructure:"client_cert"`
	ClientKey  string `mapstructure:"client_key"`
}

// Fetcher reads secrets from a single Vault KV v2 mount.
type Fetcher struct {
	client *vaultapi.Client
	mount  string
}

// New builds a Fetcher using the given Vault client against the named
// KV v2 mount (e.g. "secret").
func New(client *vaultapi.Client, mount string) *Fetcher {
	return &Fetcher{client: client, mount: mount}
}

// NewFromEnv builds a Fetcher using a Vault client configured the
// standard way, from VAULT_ADDR/VAULT_TOKEN and related environment
// variables.
func NewFromEnv(mount string) (*Fetcher, error) {
	client, err := vaultapi.NewClient(vaultapi.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("dynalog: vault client: %w", err)
	}
	return New(client, mount), nil
}

// FetchNATSCredentials reads the secret at path under the fetcher's
// mount and decodes it into NATSCredentials.
func (f *Fetcher) FetchNATSCredentials(ctx context.Context, path string) (NATSCredentials, error) {
	var creds NATSCredentials
	secret, err := f.client.KVv2(f.mount).Get(ctx, path)
	if err != nil {
		return creds, fmt.Errorf("dynalog: read vault secret %s/%s: %w", f.mount, path, err)
	}
	if secret == nil || secret.Data == nil {
		return creds, fmt.Errorf("dynalog: vault secret %s/%s has no data", f.mount, path)
	}
	if err := mapstructure.Decode(secret.Data, &creds); err != nil {
		return creds, fmt.Errorf("dynalog: decode vault secret %s/%s: %w", f.mount, path, err)
	}
	return creds, nil
}
