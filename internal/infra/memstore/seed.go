package memstore

import (
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/shopspring/decimal"
)

// NewDemo returns a store preloaded with a small branch network, for running
// the service without a database.
func NewDemo() *Store {
	s := New()

	str := func(v string) *string { return &v }
	code := func(v int) *int { return &v }
	day := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	dec := decimal.RequireFromString

	s.AddBranches(
		domain.Bureau{Code: 100, Designation: "Direction Regionale Alger", Adresse: str("1 Bd Zighout Youcef, Alger")},
		domain.Bureau{Code: 123, Designation: "Alger RP", Adresse: str("Place de la Grande Poste, Alger"), CodeParent: code(100)},
		domain.Bureau{Code: 124, Designation: "Alger Bab El Oued", CodeParent: code(100)},
		domain.Bureau{Code: 200, Designation: "Direction Regionale Oran"},
		domain.Bureau{Code: 201, Designation: "Oran Centre", CodeParent: code(200)},
	)

	s.SetCSPLabel("01", "Fonctionnaire")
	s.SetCSPLabel("02", "Commercant")
	s.SetCSPLabel("03", "Retraite")

	s.AddClients(
		domain.Client{ID: 1, Nom: "Benali", Prenom: str("Karim"), CodeCSP: str("01"), TypePiece: str("CIN"), NumeroPiece: str("109876543"), DateNaissance: day(1980, time.March, 14), Statut: "ACTIF"},
		domain.Client{ID: 2, Nom: "Haddad", Prenom: str("Samia"), CodeCSP: str("02"), TypePiece: str("PP"), NumeroPiece: str("P4455667"), DateNaissance: day(1975, time.July, 2), Statut: "ACTIF"},
		domain.Client{ID: 3, Nom: "Mansouri", CodeCSP: str("03"), Statut: "ACTIF"},
		domain.Client{ID: 4, Nom: "Zerrouki", Prenom: str("Amine"), Statut: "INACTIF"},
	)

	s.AddCCPAccounts(
		domain.CompteCCP{NumeroCompte: "0012345601", ClientID: 1, CodeBureau: 123, SoldeCourant: dec("150000.00"), EtatCompte: domain.EtatCCPActif, CodeCategorie: "PART", DateOuverture: day(2015, time.January, 5)},
		domain.CompteCCP{NumeroCompte: "0012345602", ClientID: 2, CodeBureau: 123, SoldeCourant: dec("875250.50"), EtatCompte: domain.EtatCCPActif, CodeCategorie: "PRO", DateOuverture: day(2018, time.June, 21)},
		domain.CompteCCP{NumeroCompte: "0012345603", ClientID: 3, CodeBureau: 123, SoldeCourant: dec("4200.00"), EtatCompte: domain.EtatCCPActif, CodeCategorie: "PART", DateOuverture: day(2020, time.September, 1)},
		domain.CompteCCP{NumeroCompte: "0012345604", ClientID: 4, CodeBureau: 123, SoldeCourant: dec("0.00"), EtatCompte: domain.EtatCCPCloture, CodeCategorie: "PART", DateOuverture: day(2010, time.February, 11)},
		domain.CompteCCP{NumeroCompte: "0012345605", ClientID: 4, CodeBureau: 201, SoldeCourant: dec("12000.00"), EtatCompte: domain.EtatCCPBloque, CodeCategorie: "PART"},
	)

	s.AddCENAccounts(
		domain.CompteCEN{NumeroCompte: "CEN0001", ClientID: 1, CodeBureau: 123, Solde: dec("300000.00"), SoldeCertifie: dec("295000.00"), Etat: domain.EtatCENActif, CodeCategorie: "LIV", DateOuverture: day(2016, time.April, 8)},
		domain.CompteCEN{NumeroCompte: "CEN0002", ClientID: 2, CodeBureau: 123, Solde: dec("50000.00"), SoldeCertifie: dec("50000.00"), Etat: domain.EtatCENBloque, CodeCategorie: "LIV"},
	)

	s.SetOperationLabel("VIR", "Virement")
	s.SetOperationLabel("RET", "Retrait guichet")
	s.SetOperationLabel("VER", "Versement especes")

	posted := func(d, h int) time.Time { return time.Date(2024, time.March, d, h, 30, 0, 0, time.UTC) }
	s.AddMovements(
		domain.Mouvement{NumeroCompte: "0012345601", CodeBureau: 123, CodeOperation: "VER", Montant: dec("25000.00"), Sens: domain.SensCredit, DateOperation: posted(1, 9)},
		domain.Mouvement{NumeroCompte: "0012345602", CodeBureau: 123, CodeOperation: "RET", Montant: dec("-10000.00"), Sens: domain.SensDebit, DateOperation: posted(1, 11)},
		domain.Mouvement{NumeroCompte: "0012345603", CodeBureau: 123, CodeOperation: "VIR", Montant: dec("3500.00"), Sens: domain.SensCredit, DateOperation: posted(2, 10)},
	)

	s.AddTemplate(domain.ReportTemplate{
		ID: 1, Nom: domain.ReportPortefeuilleCCP, Description: str("Portefeuille des comptes CCP par agence"),
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Parameters: []domain.ReportParameter{
			{ID: 1, Nom: "codeBureau", Type: domain.ParamNumber, Obligatoire: true},
			{ID: 2, Nom: "etatCompte", Type: domain.ParamString},
		},
	}, nil)
	s.AddTemplate(domain.ReportTemplate{
		ID: 2, Nom: domain.ReportTopComptes, Description: str("Comptes CCP actifs classes par solde"),
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Parameters: []domain.ReportParameter{
			{ID: 3, Nom: "codeBureau", Type: domain.ParamNumber, Obligatoire: true},
			{ID: 4, Nom: "limit", Type: domain.ParamNumber, ValeurDefaut: str("100")},
		},
	}, nil)

	return s
}
