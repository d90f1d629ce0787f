package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// TransactionFilter narrows ListTransactions. Zero values match everything.
type TransactionFilter struct {
	AccountID    uuid.UUID
	InstrumentID uuid.UUID
	RuleID       uuid.UUID
	Status       ledger.TransactionStatus
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

// RunResult summarizes one recurring processor run.
type RunResult struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Errors    int `json:"errors"`
}

// PostResult summarizes one settlement posting pass.
type PostResult struct {
	Posted  int `json:"posted"`
	Created int `json:"created"`
}
