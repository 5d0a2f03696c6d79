package memstore

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Branches
// ============================================================

func (s *Store) ListBranches(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Bureau], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListBranches")
	defer span.End()
	if err := s.begin(ctx, "ListBranches"); err != nil {
		return domain.Page[domain.Bureau]{}, err
	}

	s.mu.RLock()
	rows := slices.Clone(s.branches)
	s.mu.RUnlock()
	return paginate(rows, branchSorter, req)
}

func (s *Store) GetBranch(ctx context.Context, code int) (*domain.Bureau, error) {
	ctx, span := tracer.Start(ctx, "Memstore.GetBranch")
	defer span.End()
	if err := s.begin(ctx, "GetBranch"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.branches {
		if b.Code == code {
			return &b, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "bureau", ID: strconv.Itoa(code)}
}

func (s *Store) ListAllBranches(ctx context.Context) ([]domain.Bureau, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListAllBranches")
	defer span.End()
	if err := s.begin(ctx, "ListAllBranches"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	rows := slices.Clone(s.branches)
	s.mu.RUnlock()
	branchSorter.order(rows, domain.Sort{})
	return nonNil(rows), nil
}

func (s *Store) ListChildBranches(ctx context.Context, code int) ([]domain.Bureau, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListChildBranches")
	defer span.End()
	if err := s.begin(ctx, "ListChildBranches"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var rows []domain.Bureau
	for _, b := range s.branches {
		if b.CodeParent != nil && *b.CodeParent == code && b.Code != code {
			rows = append(rows, b)
		}
	}
	s.mu.RUnlock()
	branchSorter.order(rows, domain.Sort{})
	return nonNil(rows), nil
}

// ============================================================
// Accounts
// ============================================================

// withOwnerCCP fills the joined client name columns. Must hold mu.
func (s *Store) withOwnerCCP(a domain.CompteCCP) domain.CompteCCP {
	if c, ok := s.clients[a.ClientID]; ok {
		nom := c.Nom
		a.ClientNom = &nom
		a.ClientPrenom = c.Prenom
	}
	return a
}

// withOwnerCEN fills the joined client name columns. Must hold mu.
func (s *Store) withOwnerCEN(a domain.CompteCEN) domain.CompteCEN {
	if c, ok := s.clients[a.ClientID]; ok {
		nom := c.Nom
		a.ClientNom = &nom
		a.ClientPrenom = c.Prenom
	}
	return a
}

func matchCCP(f domain.CCPFilter, a domain.CompteCCP) bool {
	if a.CodeBureau != f.CodeBureau {
		return false
	}
	if f.Etat == "" {
		return !domain.IsTerminalCCPState(a.EtatCompte)
	}
	return a.EtatCompte == f.Etat
}

func matchCEN(f domain.CENFilter, a domain.CompteCEN) bool {
	if a.CodeBureau != f.CodeBureau {
		return false
	}
	if f.Etat == 0 {
		return !domain.IsTerminalCENState(a.Etat)
	}
	return a.Etat == f.Etat
}

// selectCCP returns the joined accounts accepted by keep.
func (s *Store) selectCCP(keep func(domain.CompteCCP) bool) []domain.CompteCCP {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.CompteCCP
	for _, a := range s.ccp {
		if keep(a) {
			rows = append(rows, s.withOwnerCCP(a))
		}
	}
	return rows
}

func (s *Store) selectCEN(keep func(domain.CompteCEN) bool) []domain.CompteCEN {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.CompteCEN
	for _, a := range s.cen {
		if keep(a) {
			rows = append(rows, s.withOwnerCEN(a))
		}
	}
	return rows
}

func (s *Store) GetCCPAccount(ctx context.Context, numero string) (*domain.CompteCCP, error) {
	ctx, span := tracer.Start(ctx, "Memstore.GetCCPAccount")
	defer span.End()
	if err := s.begin(ctx, "GetCCPAccount"); err != nil {
		return nil, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return a.NumeroCompte == numero })
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "compte", ID: numero}
	}
	return &rows[0], nil
}

func (s *Store) ListCCPByCategory(ctx context.Context, categorie string, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListCCPByCategory")
	defer span.End()
	if err := s.begin(ctx, "ListCCPByCategory"); err != nil {
		return domain.Page[domain.CompteCCP]{}, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return a.CodeCategorie == categorie })
	return paginate(rows, ccpSorter, req)
}

func (s *Store) ListCCPByOpeningDate(ctx context.Context, day time.Time, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListCCPByOpeningDate")
	defer span.End()
	if err := s.begin(ctx, "ListCCPByOpeningDate"); err != nil {
		return domain.Page[domain.CompteCCP]{}, err
	}

	want := day.Format("2006-01-02")
	rows := s.selectCCP(func(a domain.CompteCCP) bool {
		return a.DateOuverture != nil && a.DateOuverture.Format("2006-01-02") == want
	})
	return paginate(rows, ccpSorter, req)
}

func (s *Store) ListCCPByClient(ctx context.Context, clientID int64) ([]domain.CompteCCP, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListCCPByClient")
	defer span.End()
	if err := s.begin(ctx, "ListCCPByClient"); err != nil {
		return nil, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return a.ClientID == clientID })
	ccpSorter.order(rows, domain.Sort{})
	return nonNil(rows), nil
}

func (s *Store) FindCCPByBranch(ctx context.Context, f domain.CCPFilter, req domain.PageRequest) (domain.Page[domain.CompteCCP], error) {
	ctx, span := tracer.Start(ctx, "Memstore.FindCCPByBranch")
	defer span.End()
	if err := s.begin(ctx, "FindCCPByBranch"); err != nil {
		return domain.Page[domain.CompteCCP]{}, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return matchCCP(f, a) })
	return paginate(rows, ccpSorter, req)
}

func (s *Store) ListCCPByBranch(ctx context.Context, f domain.CCPFilter) ([]domain.CompteCCP, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListCCPByBranch")
	defer span.End()
	if err := s.begin(ctx, "ListCCPByBranch"); err != nil {
		return nil, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return matchCCP(f, a) })
	ccpSorter.order(rows, domain.Sort{})
	return nonNil(rows), nil
}

func (s *Store) AggregateCCP(ctx context.Context, f domain.CCPFilter) (domain.AccountAggregate, error) {
	ctx, span := tracer.Start(ctx, "Memstore.AggregateCCP")
	defer span.End()
	if err := s.begin(ctx, "AggregateCCP"); err != nil {
		return domain.AccountAggregate{}, err
	}

	rows := s.selectCCP(func(a domain.CompteCCP) bool { return matchCCP(f, a) })
	return aggregate(rows, func(a domain.CompteCCP) (string, decimal.Decimal) {
		return a.CodeCategorie, a.SoldeCourant
	}), nil
}

func (s *Store) TopCCPByBalance(ctx context.Context, codeBureau, limit int) ([]domain.CompteCCP, error) {
	ctx, span := tracer.Start(ctx, "Memstore.TopCCPByBalance")
	defer span.End()
	if err := s.begin(ctx, "TopCCPByBalance"); err != nil {
		return nil, err
	}

	f := domain.CCPFilter{CodeBureau: codeBureau}
	rows := s.selectCCP(func(a domain.CompteCCP) bool { return matchCCP(f, a) })
	ccpSorter.order(rows, domain.Sort{Field: domain.SortAccountSolde, Desc: true})
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return nonNil(rows), nil
}

func (s *Store) FindCENByBranch(ctx context.Context, f domain.CENFilter, req domain.PageRequest) (domain.Page[domain.CompteCEN], error) {
	ctx, span := tracer.Start(ctx, "Memstore.FindCENByBranch")
	defer span.End()
	if err := s.begin(ctx, "FindCENByBranch"); err != nil {
		return domain.Page[domain.CompteCEN]{}, err
	}

	rows := s.selectCEN(func(a domain.CompteCEN) bool { return matchCEN(f, a) })
	return paginate(rows, cenSorter, req)
}

func (s *Store) ListCENByBranch(ctx context.Context, f domain.CENFilter) ([]domain.CompteCEN, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListCENByBranch")
	defer span.End()
	if err := s.begin(ctx, "ListCENByBranch"); err != nil {
		return nil, err
	}

	rows := s.selectCEN(func(a domain.CompteCEN) bool { return matchCEN(f, a) })
	cenSorter.order(rows, domain.Sort{})
	return nonNil(rows), nil
}

func (s *Store) AggregateCEN(ctx context.Context, f domain.CENFilter) (domain.AccountAggregate, error) {
	ctx, span := tracer.Start(ctx, "Memstore.AggregateCEN")
	defer span.End()
	if err := s.begin(ctx, "AggregateCEN"); err != nil {
		return domain.AccountAggregate{}, err
	}

	rows := s.selectCEN(func(a domain.CompteCEN) bool { return matchCEN(f, a) })
	return aggregate(rows, func(a domain.CompteCEN) (string, decimal.Decimal) {
		return a.CodeCategorie, a.Solde
	}), nil
}

// aggregate groups rows by category in ascending category order.
func aggregate[T any](rows []T, key func(T) (string, decimal.Decimal)) domain.AccountAggregate {
	byCat := make(map[string]*domain.CategoryTotal)
	var order []string
	for _, r := range rows {
		cat, amount := key(r)
		t, ok := byCat[cat]
		if !ok {
			t = &domain.CategoryTotal{CodeCategorie: cat, Encours: decimal.Zero}
			byCat[cat] = t
			order = append(order, cat)
		}
		t.Nombre++
		t.Encours = t.Encours.Add(amount)
	}
	slices.Sort(order)

	cats := make([]domain.CategoryTotal, 0, len(order))
	for _, c := range order {
		cats = append(cats, *byCat[c])
	}
	return domain.SumCategories(cats)
}

// ============================================================
// Clients
// ============================================================

// withCSP fills the joined socio-professional label. Must hold mu.
func (s *Store) withCSP(c domain.Client) domain.Client {
	if c.CodeCSP != nil {
		if label, ok := s.cspLabels[*c.CodeCSP]; ok {
			c.LibelleCSP = &label
		}
	}
	return c
}

func (s *Store) selectClients(keep func(domain.Client) bool) []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.Client
	for _, c := range s.clients {
		if keep(c) {
			rows = append(rows, s.withCSP(c))
		}
	}
	return rows
}

func (s *Store) ListClients(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Client], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListClients")
	defer span.End()
	if err := s.begin(ctx, "ListClients"); err != nil {
		return domain.Page[domain.Client]{}, err
	}

	rows := s.selectClients(func(domain.Client) bool { return true })
	return paginate(rows, clientSorter, req)
}

func (s *Store) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	ctx, span := tracer.Start(ctx, "Memstore.GetClient")
	defer span.End()
	if err := s.begin(ctx, "GetClient"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "client", ID: strconv.FormatInt(id, 10)}
	}
	c = s.withCSP(c)
	return &c, nil
}

func (s *Store) ListClientsByStatus(ctx context.Context, status string, req domain.PageRequest) (domain.Page[domain.Client], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListClientsByStatus")
	defer span.End()
	if err := s.begin(ctx, "ListClientsByStatus"); err != nil {
		return domain.Page[domain.Client]{}, err
	}

	rows := s.selectClients(func(c domain.Client) bool { return c.Statut == status })
	return paginate(rows, clientSorter, req)
}

// ============================================================
// Movements
// ============================================================

func matchMovement(f domain.MovementFilter, m domain.Mouvement) bool {
	if m.CodeBureau != f.CodeBureau {
		return false
	}
	if f.From != nil && m.DateOperation.Before(*f.From) {
		return false
	}
	if f.To != nil && !m.DateOperation.Before(*f.To) {
		return false
	}
	return true
}

func (s *Store) selectMovements(keep func(domain.Mouvement) bool) []domain.Mouvement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.Mouvement
	for _, m := range s.movements {
		if !keep(m) {
			continue
		}
		if label, ok := s.operationLabels[m.CodeOperation]; ok {
			m.LibelleOperation = &label
		}
		rows = append(rows, m)
	}
	return rows
}

func (s *Store) FindMovementsByBranch(ctx context.Context, f domain.MovementFilter, req domain.PageRequest) (domain.Page[domain.Mouvement], error) {
	ctx, span := tracer.Start(ctx, "Memstore.FindMovementsByBranch")
	defer span.End()
	if err := s.begin(ctx, "FindMovementsByBranch"); err != nil {
		return domain.Page[domain.Mouvement]{}, err
	}

	rows := s.selectMovements(func(m domain.Mouvement) bool { return matchMovement(f, m) })
	return paginate(rows, movementSorter, req)
}

func (s *Store) ListMovementsByBranch(ctx context.Context, f domain.MovementFilter) ([]domain.Mouvement, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListMovementsByBranch")
	defer span.End()
	if err := s.begin(ctx, "ListMovementsByBranch"); err != nil {
		return nil, err
	}

	rows := s.selectMovements(func(m domain.Mouvement) bool { return matchMovement(f, m) })
	movementSorter.order(rows, domain.Sort{Field: domain.SortMovementDate})
	return nonNil(rows), nil
}

func (s *Store) AggregateMovements(ctx context.Context, f domain.MovementFilter) (domain.MovementAggregate, error) {
	ctx, span := tracer.Start(ctx, "Memstore.AggregateMovements")
	defer span.End()
	if err := s.begin(ctx, "AggregateMovements"); err != nil {
		return domain.MovementAggregate{}, err
	}

	agg := domain.MovementAggregate{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, m := range s.selectMovements(func(m domain.Mouvement) bool { return matchMovement(f, m) }) {
		agg.Nombre++
		switch m.Sens {
		case domain.SensDebit:
			agg.TotalDebit = agg.TotalDebit.Add(m.Montant.Abs())
		case domain.SensCredit:
			agg.TotalCredit = agg.TotalCredit.Add(m.Montant.Abs())
		}
	}
	return agg, nil
}

func (s *Store) ListMovementsByAccount(ctx context.Context, numero string, req domain.PageRequest) (domain.Page[domain.Mouvement], error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListMovementsByAccount")
	defer span.End()
	if err := s.begin(ctx, "ListMovementsByAccount"); err != nil {
		return domain.Page[domain.Mouvement]{}, err
	}

	rows := s.selectMovements(func(m domain.Mouvement) bool { return m.NumeroCompte == numero })
	return paginate(rows, movementSorter, req)
}

// ============================================================
// Report templates
// ============================================================

func cloneTemplate(t domain.ReportTemplate) domain.ReportTemplate {
	t.Parameters = slices.Clone(t.Parameters)
	if t.Parameters == nil {
		t.Parameters = []domain.ReportParameter{}
	}
	return t
}

func (s *Store) ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error) {
	ctx, span := tracer.Start(ctx, "Memstore.ListTemplates")
	defer span.End()
	if err := s.begin(ctx, "ListTemplates"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ReportTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, cloneTemplate(t))
	}
	slices.SortFunc(out, func(a, b domain.ReportTemplate) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (*domain.ReportTemplate, error) {
	ctx, span := tracer.Start(ctx, "Memstore.GetTemplate")
	defer span.End()
	if err := s.begin(ctx, "GetTemplate"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.ID == id {
			c := cloneTemplate(t)
			return &c, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "modele de rapport", ID: strconv.FormatInt(id, 10)}
}

func (s *Store) GetTemplateContent(ctx context.Context, id int64) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Memstore.GetTemplateContent")
	defer span.End()
	if err := s.begin(ctx, "GetTemplateContent"); err != nil {
		return nil, err
	}

	key := strconv.FormatInt(id, 10)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !slices.ContainsFunc(s.templates, func(t domain.ReportTemplate) bool { return t.ID == id }) {
		return nil, &domain.ErrNotFound{Resource: "modele de rapport", ID: key}
	}
	content, ok := s.contents[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "contenu du modele", ID: key}
	}
	return slices.Clone(content), nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
