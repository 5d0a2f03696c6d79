package mapper

import "github.com/boddenberg/backoffice-reporting-go/internal/domain"

// ToBureauDTO maps a branch row.
func ToBureauDTO(b domain.Bureau) domain.BureauDTO {
	return domain.BureauDTO{
		CodeBureau:       b.Code,
		Designation:      b.Designation,
		Adresse:          deref(b.Adresse),
		CodeBureauParent: b.CodeParent,
	}
}

// ToClientDTO maps a client row.
func ToClientDTO(c domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:                  c.ID,
		Nom:                 c.Nom,
		Prenom:              deref(c.Prenom),
		CodeCSP:             deref(c.CodeCSP),
		CategorieSocioPro:   deref(c.LibelleCSP),
		TypePiece:           PieceLabel(c.TypePiece),
		NumeroPiece:         deref(c.NumeroPiece),
		DateDelivrancePiece: FormatDate(c.DateDelivrancePiece),
		DateNaissance:       FormatDate(c.DateNaissance),
		Statut:              c.Statut,
	}
}

// ToCompteCCPDTO maps a CCP account row.
func ToCompteCCPDTO(a domain.CompteCCP) domain.CompteCCPDTO {
	return domain.CompteCCPDTO{
		NumeroCompte:    a.NumeroCompte,
		ClientID:        a.ClientID,
		NomClient:       deref(a.ClientNom),
		PrenomClient:    deref(a.ClientPrenom),
		CodeBureau:      a.CodeBureau,
		SoldeCourant:    a.SoldeCourant,
		SoldeOpposition: a.SoldeOpposition,
		SoldeTaxe:       a.SoldeTaxe,
		SoldePeriode:    a.SoldePeriode,
		EtatCompte:      a.EtatCompte,
		LibelleEtat:     CCPStatusLabel(a.EtatCompte),
		CodeCategorie:   a.CodeCategorie,
		DateOuverture:   FormatDate(a.DateOuverture),
	}
}

// ToCompteCENDTO maps a CEN account row.
func ToCompteCENDTO(a domain.CompteCEN) domain.CompteCENDTO {
	return domain.CompteCENDTO{
		NumeroCompte:  a.NumeroCompte,
		ClientID:      a.ClientID,
		NomClient:     deref(a.ClientNom),
		PrenomClient:  deref(a.ClientPrenom),
		CodeBureau:    a.CodeBureau,
		Solde:         a.Solde,
		SoldeCertifie: a.SoldeCertifie,
		Etat:          a.Etat,
		LibelleEtat:   CENStatusLabel(a.Etat),
		CodeCategorie: a.CodeCategorie,
		DateOuverture: FormatDate(a.DateOuverture),
	}
}

// ToMouvementDTO maps a movement row.
func ToMouvementDTO(m domain.Mouvement) domain.MouvementDTO {
	return domain.MouvementDTO{
		ID:               m.ID,
		NumeroCompte:     m.NumeroCompte,
		CodeBureau:       m.CodeBureau,
		CodeOperation:    m.CodeOperation,
		LibelleOperation: deref(m.LibelleOperation),
		Montant:          m.Montant,
		Sens:             m.Sens,
		LibelleSens:      SensLabel(m.Sens),
		DateOperation:    FormatDateTime(m.DateOperation),
	}
}

// ToTemplateDTO maps a report template and its parameters.
func ToTemplateDTO(t domain.ReportTemplate) domain.ReportTemplateDTO {
	params := make([]domain.ReportParameterDTO, 0, len(t.Parameters))
	for _, p := range t.Parameters {
		params = append(params, domain.ReportParameterDTO{
			Nom:          p.Nom,
			Type:         p.Type,
			Obligatoire:  p.Obligatoire,
			ValeurDefaut: deref(p.ValeurDefaut),
		})
	}
	return domain.ReportTemplateDTO{
		ID:           t.ID,
		Nom:          t.Nom,
		Description:  deref(t.Description),
		AContenu:     t.HasContent,
		DateCreation: FormatDateTime(t.CreatedAt),
		Parametres:   params,
	}
}

// ToLigneCompteCCP maps a CCP account to a portfolio report row.
func ToLigneCompteCCP(a domain.CompteCCP) domain.LigneCompteCCP {
	return domain.LigneCompteCCP{
		NumeroCompte:  a.NumeroCompte,
		NomClient:     deref(a.ClientNom),
		PrenomClient:  deref(a.ClientPrenom),
		CodeCategorie: a.CodeCategorie,
		DateOuverture: FormatDate(a.DateOuverture),
		Ouverture:     a.DateOuverture,
		SoldeCourant:  a.SoldeCourant,
		EtatCompte:    CCPStatusLabel(a.EtatCompte),
	}
}

// ToLigneCompteCEN maps a CEN account to a portfolio report row.
func ToLigneCompteCEN(a domain.CompteCEN) domain.LigneCompteCEN {
	return domain.LigneCompteCEN{
		NumeroCompte:  a.NumeroCompte,
		NomClient:     deref(a.ClientNom),
		PrenomClient:  deref(a.ClientPrenom),
		CodeCategorie: a.CodeCategorie,
		DateOuverture: FormatDate(a.DateOuverture),
		Ouverture:     a.DateOuverture,
		Solde:         a.Solde,
		SoldeCertifie: a.SoldeCertifie,
		Etat:          CENStatusLabel(a.Etat),
	}
}

// ToLigneTopCompte maps a CCP account to a ranked row; rank is 1-based.
func ToLigneTopCompte(rank int, a domain.CompteCCP) domain.LigneTopCompte {
	return domain.LigneTopCompte{
		Rang:          rank,
		NumeroCompte:  a.NumeroCompte,
		NomClient:     deref(a.ClientNom),
		PrenomClient:  deref(a.ClientPrenom),
		CodeCategorie: a.CodeCategorie,
		SoldeCourant:  a.SoldeCourant,
		EtatCompte:    CCPStatusLabel(a.EtatCompte),
	}
}

// ToLigneMouvement maps a movement to a journal row.
func ToLigneMouvement(m domain.Mouvement) domain.LigneMouvement {
	return domain.LigneMouvement{
		DateOperation:    FormatDateTime(m.DateOperation),
		Operation:        m.DateOperation,
		NumeroCompte:     m.NumeroCompte,
		CodeOperation:    m.CodeOperation,
		LibelleOperation: deref(m.LibelleOperation),
		Sens:             SensLabel(m.Sens),
		Montant:          m.Montant,
	}
}

// ToTotauxCategorie maps aggregate breakdown lines.
func ToTotauxCategorie(cats []domain.CategoryTotal) []domain.TotalCategorie {
	out := make([]domain.TotalCategorie, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.TotalCategorie{
			CodeCategorie: c.CodeCategorie,
			Nombre:        c.Nombre,
			Encours:       c.Encours,
		})
	}
	return out
}

// MapSlice applies fn to every element.
func MapSlice[S, D any](in []S, fn func(S) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// MapPage converts a page of rows, keeping the envelope.
func MapPage[S, D any](p domain.Page[S], fn func(S) D) domain.Page[D] {
	return domain.Page[D]{
		Content:          MapSlice(p.Content, fn),
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Number:           p.Number,
		Size:             p.Size,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
