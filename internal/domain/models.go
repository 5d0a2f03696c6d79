package domain

import "github.com/shopspring/decimal"

func init() {
	// Amounts are written as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ============================================================
// Transfer objects (JSON API)
// ============================================================

// BureauDTO is the API shape of a branch.
type BureauDTO struct {
	CodeBureau       int    `json:"codeBureau"`
	Designation      string `json:"designation"`
	Adresse          string `json:"adresse"`
	CodeBureauParent *int   `json:"codeBureauParent,omitempty"`
}

// BureauNodeDTO is one node of the branch tree.
type BureauNodeDTO struct {
	CodeBureau  int             `json:"codeBureau"`
	Designation string          `json:"designation"`
	Enfants     []BureauNodeDTO `json:"enfants"`
}

// ClientDTO is the API shape of a client.
type ClientDTO struct {
	ID                  int64  `json:"id"`
	Nom                 string `json:"nom"`
	Prenom              string `json:"prenom"`
	CodeCSP             string `json:"codeCsp"`
	CategorieSocioPro   string `json:"categorieSocioProfessionnelle"`
	TypePiece           string `json:"typePiece"`
	NumeroPiece         string `json:"numeroPiece"`
	DateDelivrancePiece string `json:"dateDelivrancePiece"`
	DateNaissance       string `json:"dateNaissance"`
	Statut              string `json:"statut"`
}

// CompteCCPDTO is the API shape of a CCP account.
type CompteCCPDTO struct {
	NumeroCompte    string          `json:"numeroCompte"`
	ClientID        int64           `json:"clientId"`
	NomClient       string          `json:"nomClient"`
	PrenomClient    string          `json:"prenomClient"`
	CodeBureau      int             `json:"codeBureau"`
	SoldeCourant    decimal.Decimal `json:"soldeCourant"`
	SoldeOpposition decimal.Decimal `json:"soldeOpposition"`
	SoldeTaxe       decimal.Decimal `json:"soldeTaxe"`
	SoldePeriode    decimal.Decimal `json:"soldePeriode"`
	EtatCompte      string          `json:"etatCompte"`
	LibelleEtat     string          `json:"libelleEtat"`
	CodeCategorie   string          `json:"codeCategorie"`
	DateOuverture   string          `json:"dateOuverture"`
}

// CompteCENDTO is the API shape of a CEN account.
type CompteCENDTO struct {
	NumeroCompte  string          `json:"numeroCompte"`
	ClientID      int64           `json:"clientId"`
	NomClient     string          `json:"nomClient"`
	PrenomClient  string          `json:"prenomClient"`
	CodeBureau    int             `json:"codeBureau"`
	Solde         decimal.Decimal `json:"solde"`
	SoldeCertifie decimal.Decimal `json:"soldeCertifie"`
	Etat          int             `json:"etat"`
	LibelleEtat   string          `json:"libelleEtat"`
	CodeCategorie string          `json:"codeCategorie"`
	DateOuverture string          `json:"dateOuverture"`
}

// MouvementDTO is the API shape of a movement.
type MouvementDTO struct {
	ID               int64           `json:"id"`
	NumeroCompte     string          `json:"numeroCompte"`
	CodeBureau       int             `json:"codeBureau"`
	CodeOperation    string          `json:"codeOperation"`
	LibelleOperation string          `json:"libelleOperation"`
	Montant          decimal.Decimal `json:"montant"`
	Sens             string          `json:"sens"`
	LibelleSens      string          `json:"libelleSens"`
	DateOperation    string          `json:"dateOperation"`
}

// ReportTemplateDTO is the API shape of a report definition.
type ReportTemplateDTO struct {
	ID           int64                `json:"id"`
	Nom          string               `json:"nom"`
	Description  string               `json:"description"`
	AContenu     bool                 `json:"aContenu"`
	DateCreation string               `json:"dateCreation"`
	Parametres   []ReportParameterDTO `json:"parametres"`
}

// ReportParameterDTO is the API shape of a template parameter.
type ReportParameterDTO struct {
	Nom          string `json:"nom"`
	Type         string `json:"type"`
	Obligatoire  bool   `json:"obligatoire"`
	ValeurDefaut string `json:"valeurDefaut"`
}
