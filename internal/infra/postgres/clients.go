package postgres

import (
	"context"
	"strconv"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ============================================================
// Clients
// ============================================================

const (
	clientColumns = `cl.id, cl.nom, cl.prenom, cl.code_csp, csp.libelle_csp,
		cl.type_piece, cl.numero_piece, cl.date_delivrance_piece,
		cl.date_naissance, cl.statut`
	clientFrom = `client cl LEFT JOIN csp ON csp.code_csp = cl.code_csp`
)

func scanClient(row pgx.Row) (domain.Client, error) {
	var c domain.Client
	err := row.Scan(&c.ID, &c.Nom, &c.Prenom, &c.CodeCSP, &c.LibelleCSP,
		&c.TypePiece, &c.NumeroPiece, &c.DateDelivrancePiece,
		&c.DateNaissance, &c.Statut)
	return c, err
}

func (s *Store) ListClients(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Client], error) {
	return run(ctx, s, "ListClients", func(ctx context.Context) (domain.Page[domain.Client], error) {
		order, err := clientSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.Client]{}, err
		}
		return queryPage(ctx, s.pool, clientColumns, clientFrom, "", nil, order, req, scanClient)
	})
}

func (s *Store) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return run(ctx, s, "GetClient", func(ctx context.Context) (*domain.Client, error) {
		c, err := queryOne(ctx, s.pool,
			`SELECT `+clientColumns+` FROM `+clientFrom+` WHERE cl.id = $1`,
			[]any{id}, scanClient,
			&domain.ErrNotFound{Resource: "client", ID: strconv.FormatInt(id, 10)})
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
}

func (s *Store) ListClientsByStatus(ctx context.Context, status string, req domain.PageRequest) (domain.Page[domain.Client], error) {
	return run(ctx, s, "ListClientsByStatus", func(ctx context.Context) (domain.Page[domain.Client], error) {
		order, err := clientSort.orderBy(req.Sort)
		if err != nil {
			return domain.Page[domain.Client]{}, err
		}
		return queryPage(ctx, s.pool, clientColumns, clientFrom,
			` WHERE cl.statut = $1`, []any{status}, order, req, scanClient)
	})
}
