package postgres

import (
	"context"
	"strconv"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ============================================================
// Branches (bureau)
// ============================================================

const branchColumns = `b.code_bureau, b.designation, b.adresse, b.code_parent`

func scanBranch(row pgx.Row) (domain.Bureau, error) {
	var b domain.Bureau
	err := row.Scan(&b.Code, &b.Designation, &b.Adresse, &b.CodeParent)
	return b, err
}

func (s *Store) ListBranches(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Bureau], error) {
	return run(ctx, s, "ListBranches", func(ctx context.Context) (domain.Page[domain.Bureau], error) {
		order, err := branchSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.Bureau]{}, err
		}
		return queryPage(ctx, s.pool, branchColumns, "bureau b", "", nil, order, req, scanBranch)
	})
}

func (s *Store) GetBranch(ctx context.Context, code int) (*domain.Bureau, error) {
	return run(ctx, s, "GetBranch", func(ctx context.Context) (*domain.Bureau, error) {
		b, err := queryOne(ctx, s.pool,
			`SELECT `+branchColumns+` FROM bureau b WHERE b.code_bureau = $1`,
			[]any{code}, scanBranch,
			&domain.ErrNotFound{Resource: "bureau", ID: strconv.Itoa(code)})
		if err != nil {
			return nil, err
		}
		return &b, nil
	})
}

func (s *Store) ListAllBranches(ctx context.Context) ([]domain.Bureau, error) {
	return run(ctx, s, "ListAllBranches", func(ctx context.Context) ([]domain.Bureau, error) {
		return queryAll(ctx, s.pool,
			`SELECT `+branchColumns+` FROM bureau b ORDER BY b.code_bureau`,
			nil, scanBranch)
	})
}

func (s *Store) ListChildBranches(ctx context.Context, code int) ([]domain.Bureau, error) {
	return run(ctx, s, "ListChildBranches", func(ctx context.Context) ([]domain.Bureau, error) {
		return queryAll(ctx, s.pool,
			`SELECT `+branchColumns+` FROM bureau b
			 WHERE b.code_parent = $1 AND b.code_bureau <> $1
			 ORDER BY b.code_bureau`,
			[]any{code}, scanBranch)
	})
}
