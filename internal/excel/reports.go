package excel

import (
	"fmt"
	"strings"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

func header(e domain.EnteteRapport) []string {
	meta := []string{
		fmt.Sprintf("Agence : %d - %s", e.CodeBureau, e.DesignationBureau),
		"Date de génération : " + e.DateGeneration,
	}
	if len(e.Filtres) > 0 {
		meta = append(meta, "Filtres : "+strings.Join(e.Filtres, ", "))
	}
	return append(meta, "Référence : "+e.Identifiant)
}

func categoryFooter(cats []domain.TotalCategorie) []FooterLine {
	lines := make([]FooterLine, 0, len(cats))
	for _, c := range cats {
		lines = append(lines, FooterLine{
			Label: fmt.Sprintf("Catégorie %s (%d comptes)", c.CodeCategorie, c.Nombre),
			Value: c.Encours,
			Kind:  Currency,
		})
	}
	return lines
}

// PortefeuilleCCPSheet lays out a CCP portfolio report.
func PortefeuilleCCPSheet(r domain.PortefeuilleCCPReport) Sheet {
	rows := make([][]any, 0, len(r.Comptes))
	for _, c := range r.Comptes {
		rows = append(rows, []any{c.NumeroCompte, c.NomClient, c.PrenomClient, c.CodeCategorie, c.Ouverture, c.SoldeCourant, c.EtatCompte})
	}
	footer := []FooterLine{
		{Label: "Nombre total de comptes", Value: r.NombreTotalComptes, Kind: Integer},
		{Label: "Encours total", Value: r.EncoursTotalComptes, Kind: Currency},
	}
	return Sheet{
		Name:     "Portefeuille CCP",
		Title:    r.Entete.Titre,
		Metadata: header(r.Entete),
		Columns: []Column{
			{Header: "N° Compte", Kind: Text},
			{Header: "Nom", Kind: Text},
			{Header: "Prénom", Kind: Text},
			{Header: "Catégorie", Kind: Text},
			{Header: "Date d'ouverture", Kind: Date},
			{Header: "Solde courant", Kind: Currency},
			{Header: "État", Kind: Text},
		},
		Rows:   rows,
		Footer: append(footer, categoryFooter(r.TotauxParCategorie)...),
	}
}

// PortefeuilleCENSheet lays out a CEN portfolio report.
func PortefeuilleCENSheet(r domain.PortefeuilleCENReport) Sheet {
	rows := make([][]any, 0, len(r.Comptes))
	for _, c := range r.Comptes {
		rows = append(rows, []any{c.NumeroCompte, c.NomClient, c.PrenomClient, c.CodeCategorie, c.Ouverture, c.Solde, c.SoldeCertifie, c.Etat})
	}
	footer := []FooterLine{
		{Label: "Nombre total de comptes", Value: r.NombreTotalComptes, Kind: Integer},
		{Label: "Encours total", Value: r.EncoursTotalComptes, Kind: Currency},
	}
	return Sheet{
		Name:     "Portefeuille CEN",
		Title:    r.Entete.Titre,
		Metadata: header(r.Entete),
		Columns: []Column{
			{Header: "N° Compte", Kind: Text},
			{Header: "Nom", Kind: Text},
			{Header: "Prénom", Kind: Text},
			{Header: "Catégorie", Kind: Text},
			{Header: "Date d'ouverture", Kind: Date},
			{Header: "Solde", Kind: Currency},
			{Header: "Solde certifié", Kind: Currency},
			{Header: "État", Kind: Text},
		},
		Rows:   rows,
		Footer: append(footer, categoryFooter(r.TotauxParCategorie)...),
	}
}

// TopComptesSheet lays out the ranked accounts report.
func TopComptesSheet(r domain.TopComptesReport) Sheet {
	rows := make([][]any, 0, len(r.Comptes))
	for _, c := range r.Comptes {
		rows = append(rows, []any{c.Rang, c.NumeroCompte, c.NomClient, c.PrenomClient, c.CodeCategorie, c.SoldeCourant, c.EtatCompte})
	}
	return Sheet{
		Name:     "Top comptes",
		Title:    r.Entete.Titre,
		Metadata: header(r.Entete),
		Columns: []Column{
			{Header: "Rang", Kind: Integer},
			{Header: "N° Compte", Kind: Text},
			{Header: "Nom", Kind: Text},
			{Header: "Prénom", Kind: Text},
			{Header: "Catégorie", Kind: Text},
			{Header: "Solde courant", Kind: Currency},
			{Header: "État", Kind: Text},
		},
		Rows: rows,
		Footer: []FooterLine{
			{Label: "Nombre de comptes", Value: int64(len(r.Comptes)), Kind: Integer},
			{Label: "Encours des comptes listés", Value: r.EncoursTotalComptes, Kind: Currency},
		},
	}
}

// JournalMouvementsSheet lays out the movements journal.
func JournalMouvementsSheet(r domain.JournalMouvementsReport) Sheet {
	rows := make([][]any, 0, len(r.Mouvements))
	for _, m := range r.Mouvements {
		rows = append(rows, []any{m.Operation, m.NumeroCompte, m.CodeOperation, m.LibelleOperation, m.Sens, m.Montant})
	}
	return Sheet{
		Name:     "Journal mouvements",
		Title:    r.Entete.Titre,
		Metadata: header(r.Entete),
		Columns: []Column{
			{Header: "Date opération", Kind: DateTime},
			{Header: "N° Compte", Kind: Text},
			{Header: "Code opération", Kind: Text},
			{Header: "Libellé", Kind: Text},
			{Header: "Sens", Kind: Text},
			{Header: "Montant", Kind: Currency},
		},
		Rows: rows,
		Footer: []FooterLine{
			{Label: "Nombre de mouvements", Value: r.NombreMouvements, Kind: Integer},
			{Label: "Total débit", Value: r.TotalDebit, Kind: Currency},
			{Label: "Total crédit", Value: r.TotalCredit, Kind: Currency},
			{Label: "Solde net", Value: r.SoldeNet, Kind: Currency},
		},
	}
}
