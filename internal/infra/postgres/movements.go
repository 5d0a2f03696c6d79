package postgres

import (
	"context"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ============================================================
// Movements (append-only)
// ============================================================

const (
	movementColumns = `m.id, m.numero_compte, m.code_bureau, m.code_operation,
		t.libelle_operation, m.montant, m.sens, m.date_operation`
	movementFrom = `mouvement m LEFT JOIN type_operation t ON t.code_operation = m.code_operation`
)

func scanMovement(row pgx.Row) (domain.Mouvement, error) {
	var m domain.Mouvement
	err := row.Scan(&m.ID, &m.NumeroCompte, &m.CodeBureau, &m.CodeOperation,
		&m.LibelleOperation, &m.Montant, &m.Sens, &m.DateOperation)
	return m, err
}

// movementWhere renders the branch filter and the optional [from, to) window.
func movementWhere(f domain.MovementFilter) (string, []any) {
	switch {
	case f.From != nil && f.To != nil:
		return ` WHERE m.code_bureau = $1 AND m.date_operation >= $2 AND m.date_operation < $3`,
			[]any{f.CodeBureau, *f.From, *f.To}
	case f.From != nil:
		return ` WHERE m.code_bureau = $1 AND m.date_operation >= $2`, []any{f.CodeBureau, *f.From}
	case f.To != nil:
		return ` WHERE m.code_bureau = $1 AND m.date_operation < $2`, []any{f.CodeBureau, *f.To}
	default:
		return ` WHERE m.code_bureau = $1`, []any{f.CodeBureau}
	}
}

func (s *Store) FindMovementsByBranch(ctx context.Context, f domain.MovementFilter, req domain.PageRequest) (domain.Page[domain.Mouvement], error) {
	return run(ctx, s, "FindMovementsByBranch", func(ctx context.Context) (domain.Page[domain.Mouvement], error) {
		order, err := movementSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.Mouvement]{}, err
		}
		where, args := movementWhere(f)
		return queryPage(ctx, s.pool, movementColumns, movementFrom, where, args, order, req, scanMovement)
	})
}

func (s *Store) ListMovementsByBranch(ctx context.Context, f domain.MovementFilter) ([]domain.Mouvement, error) {
	return run(ctx, s, "ListMovementsByBranch", func(ctx context.Context) ([]domain.Mouvement, error) {
		where, args := movementWhere(f)
		return queryAll(ctx, s.pool,
			`SELECT `+movementColumns+` FROM `+movementFrom+where+` ORDER BY m.date_operation, m.id`,
			args, scanMovement)
	})
}

func (s *Store) AggregateMovements(ctx context.Context, f domain.MovementFilter) (domain.MovementAggregate, error) {
	return run(ctx, s, "AggregateMovements", func(ctx context.Context) (domain.MovementAggregate, error) {
		where, args := movementWhere(f)
		var agg domain.MovementAggregate
		err := s.pool.QueryRow(ctx,
			`SELECT COUNT(*),
			        COALESCE(SUM(ABS(m.montant)) FILTER (WHERE m.sens = 'D'), 0),
			        COALESCE(SUM(ABS(m.montant)) FILTER (WHERE m.sens = 'C'), 0)
			 FROM mouvement m`+where,
			args...).Scan(&agg.Nombre, &agg.TotalDebit, &agg.TotalCredit)
		return agg, err
	})
}

func (s *Store) ListMovementsByAccount(ctx context.Context, numero string, req domain.PageRequest) (domain.Page[domain.Mouvement], error) {
	return run(ctx, s, "ListMovementsByAccount", func(ctx context.Context) (domain.Page[domain.Mouvement], error) {
		order, err := movementSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.Mouvement]{}, err
		}
		return queryPage(ctx, s.pool, movementColumns, movementFrom,
			` WHERE m.numero_compte = $1`, []any{numero}, order, req, scanMovement)
	})
}
