package visitor

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const visitorKey = "assistant:visitor_id"

// Provider provisions the one durable visitor identity of a client
// installation. The id is generated at most once and never mutated;
// everything else about the assistant is ephemeral.
type Provider struct {
	db *badger.DB
}

// NewProvider opens (or creates) the identity store at path.
func NewProvider(path string) (*Provider, error) {
	opts := badger.DefaultOptions(path).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open identity store: %w", err)
	}
	return &Provider{db: db}, nil
}

// GetOrCreateVisitorID returns the persisted visitor id, generating and
// storing one on first call. The read-then-write runs inside a single
// transaction, so concurrent first calls agree on one id.
func (p *Provider) GetOrCreateVisitorID() (string, error) {
	var id string
	err := p.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(visitorKey))
		if err == nil {
			return item.Value(func(val []byte) error {
				id = string(val)
				return nil
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		generated, err := newVisitorID()
		if err != nil {
			return err
		}
		id = generated
		return txn.Set([]byte(visitorKey), []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("provision visitor id: %w", err)
	}
	return id, nil
}

// Close releases the underlying store.
func (p *Provider) Close() error {
	return p.db.Close()
}

func newVisitorID() (string, error) {
	suffix := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, suffix); err != nil {
		return "", fmt.Errorf("generate visitor id: %w", err)
	}
	return fmt.Sprintf("visitor_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix)), nil
}
