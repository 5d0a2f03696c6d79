package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Reports (built per request, never persisted)
// ============================================================

// Report types served by the catalogue.
const (
	ReportPortefeuilleCCP     = "etat-portefeuille-client"
	ReportPortefeuilleCEN     = "etat-portefeuille-cen"
	ReportTopComptes          = "top-comptes"
	ReportJournalMouvements   = "journal-mouvements"
	ReportComptesDormants     = "comptes-dormants"
	ReportSituationTresorerie = "situation-tresorerie"
	ReportOppositions         = "oppositions"
)

// DefaultTopLimit is the size of the "top accounts by balance" report.
const DefaultTopLimit = 100

// EnteteRapport is the header block shared by every report.
type EnteteRapport struct {
	Identifiant       string    `json:"identifiant"`
	Titre             string    `json:"titre"`
	DateGeneration    string    `json:"dateGeneration"`
	GenereLe          time.Time `json:"-"`
	CodeBureau        int       `json:"codeBureau"`
	DesignationBureau string    `json:"designationBureau"`
	Filtres           []string  `json:"filtres"`
}

// TotalCategorie is the per-category breakdown line of a portfolio report.
type TotalCategorie struct {
	CodeCategorie string          `json:"codeCategorie"`
	Nombre        int64           `json:"nombre"`
	Encours       decimal.Decimal `json:"encours"`
}

// LigneCompteCCP is one detail row of a CCP portfolio report.
type LigneCompteCCP struct {
	NumeroCompte  string          `json:"numeroCompte"`
	NomClient     string          `json:"nomClient"`
	PrenomClient  string          `json:"prenomClient"`
	CodeCategorie string          `json:"codeCategorie"`
	DateOuverture string          `json:"dateOuverture"`
	Ouverture     *time.Time      `json:"-"`
	SoldeCourant  decimal.Decimal `json:"soldeCourant"`
	EtatCompte    string          `json:"etatCompte"`
}

// PortefeuilleCCPReport lists the CCP accounts of one branch.
type PortefeuilleCCPReport struct {
	Entete              EnteteRapport    `json:"entete"`
	Comptes             []LigneCompteCCP `json:"comptes"`
	NombreTotalComptes  int64            `json:"nombreTotalComptes"`
	EncoursTotalComptes decimal.Decimal  `json:"encoursTotalComptes"`
	TotauxParCategorie  []TotalCategorie `json:"totauxParCategorie"`
}

// LigneCompteCEN is one detail row of a CEN portfolio report.
type LigneCompteCEN struct {
	NumeroCompte  string          `json:"numeroCompte"`
	NomClient     string          `json:"nomClient"`
	PrenomClient  string          `json:"prenomClient"`
	CodeCategorie string          `json:"codeCategorie"`
	DateOuverture string          `json:"dateOuverture"`
	Ouverture     *time.Time      `json:"-"`
	Solde         decimal.Decimal `json:"solde"`
	SoldeCertifie decimal.Decimal `json:"soldeCertifie"`
	Etat          string          `json:"etat"`
}

// PortefeuilleCENReport lists the CEN accounts of one branch.
type PortefeuilleCENReport struct {
	Entete              EnteteRapport    `json:"entete"`
	Comptes             []LigneCompteCEN `json:"comptes"`
	NombreTotalComptes  int64            `json:"nombreTotalComptes"`
	EncoursTotalComptes decimal.Decimal  `json:"encoursTotalComptes"`
	TotauxParCategorie  []TotalCategorie `json:"totauxParCategorie"`
}

// LigneTopCompte is one ranked row of the top-accounts report.
type LigneTopCompte struct {
	Rang          int             `json:"rang"`
	NumeroCompte  string          `json:"numeroCompte"`
	NomClient     string          `json:"nomClient"`
	PrenomClient  string          `json:"prenomClient"`
	CodeCategorie string          `json:"codeCategorie"`
	SoldeCourant  decimal.Decimal `json:"soldeCourant"`
	EtatCompte    string          `json:"etatCompte"`
}

// TopComptesReport ranks the active CCP accounts of a branch by balance.
type TopComptesReport struct {
	Entete              EnteteRapport    `json:"entete"`
	Comptes             []LigneTopCompte `json:"comptes"`
	NombreTotalComptes  int64            `json:"nombreTotalComptes"`
	EncoursTotalComptes decimal.Decimal  `json:"encoursTotalComptes"`
}

// LigneMouvement is one detail row of the movements journal.
type LigneMouvement struct {
	DateOperation    string          `json:"dateOperation"`
	Operation        time.Time       `json:"-"`
	NumeroCompte     string          `json:"numeroCompte"`
	CodeOperation    string          `json:"codeOperation"`
	LibelleOperation string          `json:"libelleOperation"`
	Sens             string          `json:"sens"`
	Montant          decimal.Decimal `json:"montant"`
}

// JournalMouvementsReport lists the movements posted at a branch.
type JournalMouvementsReport struct {
	Entete           EnteteRapport    `json:"entete"`
	Mouvements       []LigneMouvement `json:"mouvements"`
	NombreMouvements int64            `json:"nombreMouvements"`
	TotalDebit       decimal.Decimal  `json:"totalDebit"`
	TotalCredit      decimal.Decimal  `json:"totalCredit"`
	SoldeNet         decimal.Decimal  `json:"soldeNet"`
}
