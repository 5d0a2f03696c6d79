package postgres

import (
	"context"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ============================================================
// Accounts — CCP (compte_ccp) and CEN (compte_cen)
// ============================================================

const (
	ccpColumns = `c.numero_compte, c.client_id, c.code_bureau, c.solde_courant,
		c.solde_opposition, c.solde_taxe, c.solde_periode, c.etat_compte,
		c.code_categorie, c.date_ouverture, cl.nom, cl.prenom`
	ccpFrom = `compte_ccp c LEFT JOIN client cl ON cl.id = c.client_id`

	cenColumns = `c.numero_compte, c.client_id, c.code_bureau, c.solde,
		c.solde_certifie, c.etat, c.code_categorie, c.date_ouverture,
		cl.nom, cl.prenom`
	cenFrom = `compte_cen c LEFT JOIN client cl ON cl.id = c.client_id`
)

func scanCCP(row pgx.Row) (domain.CompteCCP, error) {
	var a domain.CompteCCP
	err := row.Scan(&a.NumeroCompte, &a.ClientID, &a.CodeBureau, &a.SoldeCourant,
		&a.SoldeOpposition, &a.SoldeTaxe, &a.SoldePeriode, &a.EtatCompte,
		&a.CodeCategorie, &a.DateOuverture, &a.ClientNom, &a.ClientPrenom)
	return a, err
}

func scanCEN(row pgx.Row) (domain.CompteCEN, error) {
	var a domain.CompteCEN
	err := row.Scan(&a.NumeroCompte, &a.ClientID, &a.CodeBureau, &a.Solde,
		&a.SoldeCertifie, &a.Etat, &a.CodeCategorie, &a.DateOuverture,
		&a.ClientNom, &a.ClientPrenom)
	return a, err
}

func scanCategory(row pgx.Row) (domain.CategoryTotal, error) {
	var t domain.CategoryTotal
	err := row.Scan(&t.CodeCategorie, &t.Nombre, &t.Encours)
	return t, err
}

// ccpWhere renders the two supported CCP filters: active accounts of a
// branch, or accounts of a branch in one exact status.
func ccpWhere(f domain.CCPFilter) (string, []any) {
	if f.Etat == "" {
		return ` WHERE c.code_bureau = $1 AND c.etat_compte NOT IN ('C', 'I', 'B')`, []any{f.CodeBureau}
	}
	return ` WHERE c.code_bureau = $1 AND c.etat_compte = $2`, []any{f.CodeBureau, f.Etat}
}

// cenWhere mirrors ccpWhere for savings accounts.
func cenWhere(f domain.CENFilter) (string, []any) {
	if f.Etat == 0 {
		return ` WHERE c.code_bureau = $1 AND c.etat NOT IN (2, 3, 4)`, []any{f.CodeBureau}
	}
	return ` WHERE c.code_bureau = $1 AND c.etat = $2`, []any{f.CodeBureau, f.Etat}
}

func (s *Store) GetCCPAccount(ctx context.Context, numero string) (*domain.CompteCCP, error) {
	return run(ctx, s, "GetCCPAccount", func(ctx context.Context) (*domain.CompteCCP, error) {
		a, err := queryOne(ctx, s.pool,
			`SELECT `+ccpColumns+` FROM `+ccpFrom+` WHERE c.numero_compte = $1`,
			[]any{numero}, scanCCP,
			&domain.ErrNotFound{Resource: "compte", ID: numero})
		if err != nil {
			return nil, err
		}
		return &a, nil
	})
}

func (s *Store) ListCCPByCategory(ctx context.Context, categorie string, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	return run(ctx, s, "ListCCPByCategory", func(ctx context.Context) (domain.Page[domain.CompteCCP], error) {
		order, err := ccpSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.CompteCCP]{}, err
		}
		return queryPage(ctx, s.pool, ccpColumns, ccpFrom,
			` WHERE c.code_categorie = $1`, []any{categorie}, order, req, scanCCP)
	})
}

func (s *Store) ListCCPByOpeningDate(ctx context.Context, day time.Time, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	return run(ctx, s, "ListCCPByOpeningDate", func(ctx context.Context) (domain.Page[domain.CompteCCP], error) {
		order, err := ccpSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.CompteCCP]{}, err
		}
		return queryPage(ctx, s.pool, ccpColumns, ccpFrom,
			` WHERE c.date_ouverture = $1::date`, []any{day.Format("2006-01-02")}, order, req, scanCCP)
	})
}

func (s *Store) ListCCPByClient(ctx context.Context, clientID int64) ([]domain.CompteCCP, error) {
	return run(ctx, s, "ListCCPByClient", func(ctx context.Context) ([]domain.CompteCCP, error) {
		return queryAll(ctx, s.pool,
			`SELECT `+ccpColumns+` FROM `+ccpFrom+` WHERE c.client_id = $1 ORDER BY c.numero_compte`,
			[]any{clientID}, scanCCP)
	})
}

func (s *Store) FindCCPByBranch(ctx context.Context, f domain.CCPFilter, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	return run(ctx, s, "FindCCPByBranch", func(ctx context.Context) (domain.Page[domain.CompteCCP], error) {
		order, err := ccpSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.CompteCCP]{}, err
		}
		where, args := ccpWhere(f)
		return queryPage(ctx, s.pool, ccpColumns, ccpFrom, where, args, order, req, scanCCP)
	})
}

func (s *Store) ListCCPByBranch(ctx context.Context, f domain.CCPFilter) ([]domain.CompteCCP, error) {
	return run(ctx, s, "ListCCPByBranch", func(ctx context.Context) ([]domain.CompteCCP, error) {
		where, args := ccpWhere(f)
		return queryAll(ctx, s.pool,
			`SELECT `+ccpColumns+` FROM `+ccpFrom+where+` ORDER BY c.numero_compte`,
			args, scanCCP)
	})
}

func (s *Store) AggregateCCP(ctx context.Context, f domain.CCPFilter) (domain.AccountAggregate, error) {
	return run(ctx, s, "AggregateCCP", func(ctx context.Context) (domain.AccountAggregate, error) {
		where, args := ccpWhere(f)
		cats, err := queryAll(ctx, s.pool,
			`SELECT c.code_categorie, COUNT(*), COALESCE(SUM(c.solde_courant), 0)
			 FROM compte_ccp c`+where+`
			 GROUP BY c.code_categorie ORDER BY c.code_categorie`,
			args, scanCategory)
		if err != nil {
			return domain.AccountAggregate{}, err
		}
		return domain.SumCategories(cats), nil
	})
}

func (s *Store) TopCCPByBalance(ctx context.Context, codeBureau, limit int) ([]domain.CompteCCP, error) {
	return run(ctx, s, "TopCCPByBalance", func(ctx context.Context) ([]domain.CompteCCP, error) {
		where, args := ccpWhere(domain.CCPFilter{CodeBureau: codeBureau})
		return queryAll(ctx, s.pool,
			`SELECT `+ccpColumns+` FROM `+ccpFrom+where+`
			 ORDER BY c.solde_courant DESC, c.numero_compte ASC LIMIT $2`,
			append(args, limit), scanCCP)
	})
}

func (s *Store) FindCENByBranch(ctx context.Context, f domain.CENFilter, req domain.PageRequest) (domain.Page[domain.CompteCEN], error) {
	return run(ctx, s, "FindCENByBranch", func(ctx context.Context) (domain.Page[domain.CompteCEN], error) {
		order, err := cenSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.CompteCEN]{}, err
		}
		where, args := cenWhere(f)
		return queryPage(ctx, s.pool, cenColumns, cenFrom, where, args, order, req, scanCEN)
	})
}

func (s *Store) ListCENByBranch(ctx context.Context, f domain.CENFilter) ([]domain.CompteCEN, error) {
	return run(ctx, s, "ListCENByBranch", func(ctx context.Context) ([]domain.CompteCEN, error) {
		where, args := cenWhere(f)
		return queryAll(ctx, s.pool,
			`SELECT `+cenColumns+` FROM `+cenFrom+where+` ORDER BY c.numero_compte`,
			args, scanCEN)
	})
}

func (s *Store) AggregateCEN(ctx context.Context, f domain.CENFilter) (domain.AccountAggregate, error) {
	return run(ctx, s, "AggregateCEN", func(ctx context.Context) (domain.AccountAggregate, error) {
		where, args := cenWhere(f)
		cats, err := queryAll(ctx, s.pool,
			`SELECT c.code_categorie, COUNT(*), COALESCE(SUM(c.solde), 0)
			 FROM compte_cen c`+where+`
			 GROUP BY c.code_categorie ORDER BY c.code_categorie`,
			args, scanCategory)
		if err != nil {
			return domain.AccountAggregate{}, err
		}
		return domain.SumCategories(cats), nil
	})
}
