// Package cluster manages the encrypted connection descriptor for the
// document-database cluster and produces live database handles from it.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/cryptox"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Manager moves through Unconfigured → Configured → Connected.
// SetConnection performs the first transition, Connect the second. The
// connected client is a shared, thread-safe handle; one Manager serves all
// collection clients of the process.
type Manager struct {
	secrets *config.SecretStore

	mu     sync.RWMutex
	client *mongo.Client
}

func NewManager(secrets *config.SecretStore) *Manager {
	return &Manager{secrets: secrets}
}

// SetConnection encrypts connString under a fresh key and nonce and
// persists the result. Rotation replaces the secret wholesale, so the key
// is never reused and nonce reuse cannot happen.
func (m *Manager) SetConnection(connString string) error {
	key, nonce, ciphertext, err := cryptox.EncryptSecret([]byte(connString))
	if err != nil {
		return fmt.Errorf("encrypting connection string: %w", err)
	}
	return m.secrets.Write(&config.ConnectionSecret{
		Key:   key,
		Nonce: nonce,
		Value: ciphertext,
	})
}

// Connect reads the persisted secret, decrypts it, and opens a handle to
// the cluster, verified with a ping bounded by ctx. Calling Connect again
// replaces the previous handle rather than erroring, so callers can wrap it
// in their own retry policy.
func (m *Manager) Connect(ctx context.Context) error {
	secret, err := m.secrets.Read()
	if err != nil {
		return err
	}

	connString, err := cryptox.DecryptSecret(secret.Key, secret.Nonce, secret.Value)
	if err != nil {
		return err
	}

	client, err := mongo.Connect(options.Client().ApplyURI(string(connString)))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorConnection, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
			return fmt.Errorf("%w: ping: %v", common.ErrorTimeout, err)
		}
		return fmt.Errorf("%w: ping: %v", common.ErrorConnection, err)
	}

	m.mu.Lock()
	old := m.client
	m.client = client
	m.mu.Unlock()

	if old != nil {
		_ = old.Disconnect(context.Background())
	}
	return nil
}

// Database returns a logical-database handle scoped under the cluster
// connection. It fails with ErrorNotConnected before a successful Connect.
func (m *Manager) Database(name string) (*mongo.Database, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, common.ErrorNotConnected
	}
	return m.client.Database(name), nil
}

// Disconnect releases the cluster handle. The Manager drops back to the
// Configured state; Connect may be called again.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
