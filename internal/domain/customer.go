package domain

import "time"

// ============================================================
// Clients
// ============================================================

// Client owns zero or more accounts. Accounts reference it by ID.
type Client struct {
	ID                  int64
	Nom                 string
	Prenom              *string
	CodeCSP             *string
	LibelleCSP          *string
	TypePiece           *string
	NumeroPiece         *string
	DateDelivrancePiece *time.Time
	DateNaissance       *time.Time
	Statut              string
}
