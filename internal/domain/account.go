package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Accounts
// ============================================================

// CCP account status codes (etat_compte).
const (
	EtatCCPActif   = "A"
	EtatCCPCloture = "C"
	EtatCCPInactif = "I"
	EtatCCPBloque  = "B"
)

// CEN account status codes (etat).
const (
	EtatCENActif   = 1
	EtatCENInactif = 2
	EtatCENBloque  = 3
	EtatCENCloture = 4
)

// TerminalCCPStates are excluded by every "active accounts" filter.
var TerminalCCPStates = []string{EtatCCPCloture, EtatCCPInactif, EtatCCPBloque}

// TerminalCENStates are excluded by every "active accounts" filter.
var TerminalCENStates = []int{EtatCENInactif, EtatCENBloque, EtatCENCloture}

// IsValidCCPState reports whether code is one of the four CCP status codes.
func IsValidCCPState(code string) bool {
	switch code {
	case EtatCCPActif, EtatCCPCloture, EtatCCPInactif, EtatCCPBloque:
		return true
	}
	return false
}

// IsTerminalCCPState reports whether code is closed, inactive or blocked.
func IsTerminalCCPState(code string) bool {
	for _, s := range TerminalCCPStates {
		if s == code {
			return true
		}
	}
	return false
}

// IsTerminalCENState reports whether code is inactive, blocked or closed.
func IsTerminalCENState(code int) bool {
	for _, s := range TerminalCENStates {
		if s == code {
			return true
		}
	}
	return false
}

// CompteCCP is a current postal account row joined with its owner's name.
type CompteCCP struct {
	NumeroCompte    string
	ClientID        int64
	CodeBureau      int
	SoldeCourant    decimal.Decimal
	SoldeOpposition decimal.Decimal
	SoldeTaxe       decimal.Decimal
	SoldePeriode    decimal.Decimal
	EtatCompte      string
	CodeCategorie   string
	DateOuverture   *time.Time

	ClientNom    *string
	ClientPrenom *string
}

// CompteCEN is a savings account row joined with its owner's name.
type CompteCEN struct {
	NumeroCompte  string
	ClientID      int64
	CodeBureau    int
	Solde         decimal.Decimal
	SoldeCertifie decimal.Decimal
	Etat          int
	CodeCategorie string
	DateOuverture *time.Time

	ClientNom    *string
	ClientPrenom *string
}

// CCPFilter selects CCP accounts of one branch. An empty Etat means
// "active accounts only"; otherwise exactly that status.
type CCPFilter struct {
	CodeBureau int
	Etat       string
}

// CENFilter selects CEN accounts of one branch. Etat == 0 means
// "active accounts only"; otherwise exactly that status.
type CENFilter struct {
	CodeBureau int
	Etat       int
}

// CategoryTotal is the count and balance sum of one product category.
type CategoryTotal struct {
	CodeCategorie string
	Nombre        int64
	Encours       decimal.Decimal
}

// AccountAggregate is computed over the whole filtered set, never a page.
type AccountAggregate struct {
	Nombre       int64
	Encours      decimal.Decimal
	ParCategorie []CategoryTotal
}

// SumCategories folds per-category totals into an aggregate.
func SumCategories(cats []CategoryTotal) AccountAggregate {
	agg := AccountAggregate{Encours: decimal.Zero, ParCategorie: cats}
	if agg.ParCategorie == nil {
		agg.ParCategorie = []CategoryTotal{}
	}
	for _, c := range cats {
		agg.Nombre += c.Nombre
		agg.Encours = agg.Encours.Add(c.Encours)
	}
	return agg
}
