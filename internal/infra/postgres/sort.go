package postgres

import (
	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

// sortable maps the public sort keys of one resource to columns, plus the
// primary key appended last so paging is stable.
type sortable struct {
	resource string
	columns  map[string]string
	tiebreak string
}

var (
	branchSort = sortable{
		resource: "bureau",
		columns: map[string]string{
			domain.SortBranchCode:        "b.code_bureau",
			domain.SortBranchDesignation: "b.designation",
		},
		tiebreak: "b.code_bureau",
	}
	ccpSort = sortable{
		resource: "compte",
		columns: map[string]string{
			domain.SortAccountNumero:        "c.numero_compte",
			domain.SortAccountSolde:         "c.solde_courant",
			domain.SortAccountDateOuverture: "c.date_ouverture",
		},
		tiebreak: "c.numero_compte",
	}
	cenSort = sortable{
		resource: "compte",
		columns: map[string]string{
			domain.SortAccountNumero:        "c.numero_compte",
			domain.SortAccountSolde:         "c.solde",
			domain.SortAccountDateOuverture: "c.date_ouverture",
		},
		tiebreak: "c.numero_compte",
	}
	clientSort = sortable{
		resource: "client",
		columns: map[string]string{
			domain.SortClientID:            "cl.id",
			domain.SortClientNom:           "cl.nom",
			domain.SortClientDateNaissance: "cl.date_naissance",
		},
		tiebreak: "cl.id",
	}
	movementSort = sortable{
		resource: "mouvement",
		columns: map[string]string{
			domain.SortMovementDate:    "m.date_operation",
			domain.SortMovementMontant: "m.montant",
		},
		tiebreak: "m.id",
	}
)

// orderBy renders an ORDER BY list for s. Unknown keys are a validation
// error; an empty key falls back to the tiebreak column.
func (s sortable) orderBy(sort domain.Sort) (string, error) {
	if sort.Field == "" {
		return s.tiebreak, nil
	}
	col, ok := s.columns[sort.Field]
	if !ok {
		return "", &domain.ErrValidation{Field: "sort", Message: "unsupported sort key for " + s.resource + ": " + sort.Field}
	}
	dir := " ASC"
	if sort.Desc {
		dir = " DESC"
	}
	if col == s.tiebreak {
		return col + dir, nil
	}
	return col + dir + ", " + s.tiebreak + " ASC", nil
}
