package memstore

import (
	"cmp"
	"slices"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

// sorter orders rows of one resource by a public sort key, then by the
// primary key. Absent values sort last ascending, first descending.
type sorter[T any] struct {
	resource string
	keys     map[string]func(a, b T) int
	tiebreak func(a, b T) int
}

func (s sorter[T]) sort(rows []T, key domain.Sort) error {
	if _, ok := s.keys[key.Field]; key.Field != "" && !ok {
		return &domain.ErrValidation{Field: "sort", Message: "unsupported sort key for " + s.resource + ": " + key.Field}
	}
	s.order(rows, key)
	return nil
}

// order sorts rows by key. An empty or unknown field orders by primary key.
func (s sorter[T]) order(rows []T, key domain.Sort) {
	compare, ok := s.keys[key.Field]
	if !ok {
		slices.SortStableFunc(rows, s.tiebreak)
		return
	}
	slices.SortStableFunc(rows, func(a, b T) int {
		c := compare(a, b)
		if key.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return s.tiebreak(a, b)
	})
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

var (
	branchSorter = sorter[domain.Bureau]{
		resource: "bureau",
		keys: map[string]func(a, b domain.Bureau) int{
			domain.SortBranchCode:        func(a, b domain.Bureau) int { return cmp.Compare(a.Code, b.Code) },
			domain.SortBranchDesignation: func(a, b domain.Bureau) int { return cmp.Compare(a.Designation, b.Designation) },
		},
		tiebreak: func(a, b domain.Bureau) int { return cmp.Compare(a.Code, b.Code) },
	}
	ccpSorter = sorter[domain.CompteCCP]{
		resource: "compte",
		keys: map[string]func(a, b domain.CompteCCP) int{
			domain.SortAccountNumero:        func(a, b domain.CompteCCP) int { return cmp.Compare(a.NumeroCompte, b.NumeroCompte) },
			domain.SortAccountSolde:         func(a, b domain.CompteCCP) int { return a.SoldeCourant.Cmp(b.SoldeCourant) },
			domain.SortAccountDateOuverture: func(a, b domain.CompteCCP) int { return compareTimePtr(a.DateOuverture, b.DateOuverture) },
		},
		tiebreak: func(a, b domain.CompteCCP) int { return cmp.Compare(a.NumeroCompte, b.NumeroCompte) },
	}
	cenSorter = sorter[domain.CompteCEN]{
		resource: "compte",
		keys: map[string]func(a, b domain.CompteCEN) int{
			domain.SortAccountNumero:        func(a, b domain.CompteCEN) int { return cmp.Compare(a.NumeroCompte, b.NumeroCompte) },
			domain.SortAccountSolde:         func(a, b domain.CompteCEN) int { return a.Solde.Cmp(b.Solde) },
			domain.SortAccountDateOuverture: func(a, b domain.CompteCEN) int { return compareTimePtr(a.DateOuverture, b.DateOuverture) },
		},
		tiebreak: func(a, b domain.CompteCEN) int { return cmp.Compare(a.NumeroCompte, b.NumeroCompte) },
	}
	clientSorter = sorter[domain.Client]{
		resource: "client",
		keys: map[string]func(a, b domain.Client) int{
			domain.SortClientID:            func(a, b domain.Client) int { return cmp.Compare(a.ID, b.ID) },
			domain.SortClientNom:           func(a, b domain.Client) int { return cmp.Compare(a.Nom, b.Nom) },
			domain.SortClientDateNaissance: func(a, b domain.Client) int { return compareTimePtr(a.DateNaissance, b.DateNaissance) },
		},
		tiebreak: func(a, b domain.Client) int { return cmp.Compare(a.ID, b.ID) },
	}
	movementSorter = sorter[domain.Mouvement]{
		resource: "mouvement",
		keys: map[string]func(a, b domain.Mouvement) int{
			domain.SortMovementDate:    func(a, b domain.Mouvement) int { return a.DateOperation.Compare(b.DateOperation) },
			domain.SortMovementMontant: func(a, b domain.Mouvement) int { return a.Montant.Cmp(b.Montant) },
		},
		tiebreak: func(a, b domain.Mouvement) int { return cmp.Compare(a.ID, b.ID) },
	}
)

// paginate sorts rows in place and cuts the requested page.
func paginate[T any](rows []T, s sorter[T], req domain.PageRequest) (domain.Page[T], error) {
	if err := s.sort(rows, req.Sort); err != nil {
		return domain.Page[T]{}, err
	}
	total := int64(len(rows))
	start := req.Offset()
	if start < 0 || start > len(rows) {
		start = len(rows)
	}
	end := start + max(req.Size, 0)
	if end < start || end > len(rows) {
		end = len(rows)
	}
	return domain.NewPage(slices.Clone(rows[start:end]), req, total), nil
}
