package storage

import (
	"context"
	"errors"
)

// Collection names. Each collection is stored as one JSON document.
const (
	CollectionRules        = "recurring_rules"
	CollectionTransactions = "transactions"
	CollectionInstruments  = "funding_instruments"
	CollectionAccounts     = "accounts"
	CollectionLinks        = "settlement_links"
	CollectionCooldown     = "recurring_cooldown"
	CollectionProjection   = "settlement_projection"
)

var ErrNotFound = errors.New("not found")

// CollectionStore is the external key-value store the ledger lives in.
// Get returns a nil payload when the collection has never been written.
//
//go:generate mockery --name CollectionStore --output mock_CollectionStore.go
type CollectionStore interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, payload []byte) error
}

// BatchSetter is implemented by stores that can write several collections
// atomically. Writer.Commit uses it when available.
type BatchSetter interface {
	SetMany(ctx context.Context, payloads map[string][]byte) error
}
