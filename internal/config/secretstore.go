package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zalbum/albumdb/internal/common"
)

// connectionSecretKey is the fixed top-level key the encrypted connection
// descriptor lives under in the secret store file.
const connectionSecretKey = "mdb_connection"

// ConnectionSecret is the encrypted cluster connection string together with
// the secretbox key and nonce that seal it. All three parts are stored
// base64-encoded.
type ConnectionSecret struct {
	Key   Base64Bytes `json:"key"`
	Nonce Base64Bytes `json:"nonce"`
	Value Base64Bytes `json:"value"`
}

// SecretStore reads and writes the ConnectionSecret in a JSON file. The file
// may carry unrelated top-level keys; they are preserved on write-back.
type SecretStore struct {
	path string
}

func NewSecretStore(path string) *SecretStore {
	return &SecretStore{path: path}
}

// Read returns the stored ConnectionSecret. A missing file, a missing
// connection entry, or an incomplete entry all surface as ErrorNotConfigured
// so callers can prompt the operator to run set-connection.
func (s *SecretStore) Read() (*ConnectionSecret, error) {
	raw, err := s.readAll()
	if err != nil {
		return nil, err
	}

	entry, ok := raw[connectionSecretKey]
	if !ok {
		return nil, fmt.Errorf("%w: no %q entry in %s", common.ErrorNotConfigured, connectionSecretKey, s.path)
	}

	secret := &ConnectionSecret{}
	if err := json.Unmarshal(entry, secret); err != nil {
		return nil, fmt.Errorf("%w: malformed %q entry: %v", common.ErrorNotConfigured, connectionSecretKey, err)
	}
	if len(secret.Key) == 0 || len(secret.Nonce) == 0 || len(secret.Value) == 0 {
		return nil, fmt.Errorf("%w: incomplete %q entry", common.ErrorNotConfigured, connectionSecretKey)
	}
	return secret, nil
}

// Write stores the ConnectionSecret, preserving any unrelated keys already
// present in the file. The new content is written to a temp file in the same
// directory and renamed into place so a crash cannot truncate the store.
func (s *SecretStore) Write(secret *ConnectionSecret) error {
	raw, err := s.readAll()
	if err != nil && !errors.Is(err, common.ErrorNotConfigured) {
		return err
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}

	entry, err := json.Marshal(secret)
	if err != nil {
		return fmt.Errorf("marshal connection secret: %w", err)
	}
	raw[connectionSecretKey] = entry

	data, err := json.MarshalIndent(raw, "", "   ")
	if err != nil {
		return fmt.Errorf("marshal secret store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp secret store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp secret store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp secret store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace secret store: %w", err)
	}
	return nil
}

func (s *SecretStore) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", common.ErrorNotConfigured, s.path)
		}
		return nil, fmt.Errorf("read secret store: %w", err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed secret store %s: %v", common.ErrorNotConfigured, s.path, err)
	}
	return raw, nil
}
