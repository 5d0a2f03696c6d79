package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Movements (append-only)
// ============================================================

const (
	SensDebit  = "D"
	SensCredit = "C"
)

// Mouvement is a posted financial transaction on one account at one branch.
type Mouvement struct {
	ID               int64
	NumeroCompte     string
	CodeBureau       int
	CodeOperation    string
	LibelleOperation *string
	Montant          decimal.Decimal
	Sens             string
	DateOperation    time.Time
}

// MovementFilter selects the movements of one branch, optionally restricted
// to the half-open window [From, To).
type MovementFilter struct {
	CodeBureau int
	From       *time.Time
	To         *time.Time
}

// MovementAggregate sums debits and credits separately, as absolute amounts.
type MovementAggregate struct {
	Nombre      int64
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}
