// Package service provides the business logic layer (use cases): directory
// lookups for branches, accounts, clients and report templates, report
// assembly and Excel export.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/observability"
	"github.com/boddenberg/backoffice-reporting-go/internal/mapper"
	"github.com/boddenberg/backoffice-reporting-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var dirTracer = otel.Tracer("service/directory")

// ============================================================
// Branches
// ============================================================

// BranchService serves the branch directory. Single-branch lookups are
// cached because every report resolves its branch first.
type BranchService struct {
	store   port.BranchStore
	cache   port.Cache[*domain.Bureau]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBranchService creates a new branch service.
func NewBranchService(store port.BranchStore, cache port.Cache[*domain.Bureau], metrics *observability.Metrics, logger *zap.Logger) *BranchService {
	return &BranchService{store: store, cache: cache, metrics: metrics, logger: logger}
}

func (s *BranchService) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.BureauDTO], error) {
	ctx, span := dirTracer.Start(ctx, "BranchService.List")
	defer span.End()

	if err := req.Check(domain.BranchSortKeys); err != nil {
		return domain.Page[domain.BureauDTO]{}, err
	}
	p, err := s.store.ListBranches(ctx, req.WithDefaultSort(domain.SortBranchCode))
	if err != nil {
		return domain.Page[domain.BureauDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToBureauDTO), nil
}

// Get resolves a branch by code, through the cache.
func (s *BranchService) Get(ctx context.Context, code int) (*domain.Bureau, error) {
	ctx, span := dirTracer.Start(ctx, "BranchService.Get")
	defer span.End()
	span.SetAttributes(attribute.Int("branch.code", code))

	cacheKey := fmt.Sprintf("bureau:%d", code)
	if b, ok := s.cache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("branch")
		return b, nil
	}
	s.metrics.IncrCacheMiss("branch")

	b, err := s.store.GetBranch(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey, b)
	return b, nil
}

func (s *BranchService) Children(ctx context.Context, code int) ([]domain.BureauDTO, error) {
	ctx, span := dirTracer.Start(ctx, "BranchService.Children")
	defer span.End()

	if _, err := s.Get(ctx, code); err != nil {
		return nil, err
	}
	children, err := s.store.ListChildBranches(ctx, code)
	if err != nil {
		return nil, err
	}
	return mapper.MapSlice(children, mapper.ToBureauDTO), nil
}

// Tree returns the whole branch hierarchy as nested nodes.
func (s *BranchService) Tree(ctx context.Context) ([]domain.BureauNodeDTO, error) {
	ctx, span := dirTracer.Start(ctx, "BranchService.Tree")
	defer span.End()

	all, err := s.store.ListAllBranches(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.BuildBranchTree(domain.NewBranchForest(all)), nil
}

// ============================================================
// Accounts
// ============================================================

// AccountService serves account lookups.
type AccountService struct {
	accounts  port.AccountStore
	movements port.MovementStore
	logger    *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(accounts port.AccountStore, movements port.MovementStore, logger *zap.Logger) *AccountService {
	return &AccountService{accounts: accounts, movements: movements, logger: logger}
}

func (s *AccountService) Get(ctx context.Context, numero string) (*domain.CompteCCPDTO, error) {
	ctx, span := dirTracer.Start(ctx, "AccountService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("account.id", numero))

	a, err := s.accounts.GetCCPAccount(ctx, numero)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToCompteCCPDTO(*a)
	return &dto, nil
}

func (s *AccountService) ByCategory(ctx context.Context, categorie string, req domain.PageRequest) (domain.Page[domain.CompteCCPDTO], error) {
	ctx, span := dirTracer.Start(ctx, "AccountService.ByCategory")
	defer span.End()

	if err := req.Check(domain.AccountSortKeys); err != nil {
		return domain.Page[domain.CompteCCPDTO]{}, err
	}
	p, err := s.accounts.ListCCPByCategory(ctx, categorie, req.WithDefaultSort(domain.SortAccountNumero))
	if err != nil {
		return domain.Page[domain.CompteCCPDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToCompteCCPDTO), nil
}

func (s *AccountService) ByOpeningDate(ctx context.Context, day time.Time, req domain.PageRequest) (domain.Page[domain.CompteCCPDTO], error) {
	ctx, span := dirTracer.Start(ctx, "AccountService.ByOpeningDate")
	defer span.End()

	if err := req.Check(domain.AccountSortKeys); err != nil {
		return domain.Page[domain.CompteCCPDTO]{}, err
	}
	p, err := s.accounts.ListCCPByOpeningDate(ctx, day, req.WithDefaultSort(domain.SortAccountNumero))
	if err != nil {
		return domain.Page[domain.CompteCCPDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToCompteCCPDTO), nil
}

// Movements lists the movements of an existing account, newest first unless
// another order is requested.
func (s *AccountService) Movements(ctx context.Context, numero string, req domain.PageRequest) (domain.Page[domain.MouvementDTO], error) {
	ctx, span := dirTracer.Start(ctx, "AccountService.Movements")
	defer span.End()

	if err := req.Check(domain.MovementSortKeys); err != nil {
		return domain.Page[domain.MouvementDTO]{}, err
	}
	if _, err := s.accounts.GetCCPAccount(ctx, numero); err != nil {
		return domain.Page[domain.MouvementDTO]{}, err
	}
	if req.Sort.Field == "" {
		req.Sort = domain.Sort{Field: domain.SortMovementDate, Desc: true}
	}
	p, err := s.movements.ListMovementsByAccount(ctx, numero, req)
	if err != nil {
		return domain.Page[domain.MouvementDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToMouvementDTO), nil
}

// ============================================================
// Clients
// ============================================================

// ClientService serves client lookups.
type ClientService struct {
	clients  port.ClientStore
	accounts port.AccountStore
	logger   *zap.Logger
}

// NewClientService creates a new client service.
func NewClientService(clients port.ClientStore, accounts port.AccountStore, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, accounts: accounts, logger: logger}
}

func (s *ClientService) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.ClientDTO], error) {
	ctx, span := dirTracer.Start(ctx, "ClientService.List")
	defer span.End()

	if err := req.Check(domain.ClientSortKeys); err != nil {
		return domain.Page[domain.ClientDTO]{}, err
	}
	p, err := s.clients.ListClients(ctx, req.WithDefaultSort(domain.SortClientID))
	if err != nil {
		return domain.Page[domain.ClientDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToClientDTO), nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*domain.ClientDTO, error) {
	ctx, span := dirTracer.Start(ctx, "ClientService.Get")
	defer span.End()
	span.SetAttributes(attribute.Int64("client.id", id))

	c, err := s.clients.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToClientDTO(*c)
	return &dto, nil
}

func (s *ClientService) ByStatus(ctx context.Context, status string, req domain.PageRequest) (domain.Page[domain.ClientDTO], error) {
	ctx, span := dirTracer.Start(ctx, "ClientService.ByStatus")
	defer span.End()

	if err := req.Check(domain.ClientSortKeys); err != nil {
		return domain.Page[domain.ClientDTO]{}, err
	}
	p, err := s.clients.ListClientsByStatus(ctx, status, req.WithDefaultSort(domain.SortClientID))
	if err != nil {
		return domain.Page[domain.ClientDTO]{}, err
	}
	return mapper.MapPage(p, mapper.ToClientDTO), nil
}

// Accounts lists the CCP accounts owned by an existing client.
func (s *ClientService) Accounts(ctx context.Context, id int64) ([]domain.CompteCCPDTO, error) {
	ctx, span := dirTracer.Start(ctx, "ClientService.Accounts")
	defer span.End()

	if _, err := s.clients.GetClient(ctx, id); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListCCPByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapper.MapSlice(accounts, mapper.ToCompteCCPDTO), nil
}

// ============================================================
// Report templates
// ============================================================

// TemplateService serves persisted report definitions.
type TemplateService struct {
	store  port.TemplateStore
	logger *zap.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(store port.TemplateStore, logger *zap.Logger) *TemplateService {
	return &TemplateService{store: store, logger: logger}
}

func (s *TemplateService) List(ctx context.Context) ([]domain.ReportTemplateDTO, error) {
	ctx, span := dirTracer.Start(ctx, "TemplateService.List")
	defer span.End()

	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.MapSlice(templates, mapper.ToTemplateDTO), nil
}

func (s *TemplateService) Get(ctx context.Context, id int64) (*domain.ReportTemplateDTO, error) {
	ctx, span := dirTracer.Start(ctx, "TemplateService.Get")
	defer span.End()

	t, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToTemplateDTO(*t)
	return &dto, nil
}

func (s *TemplateService) Content(ctx context.Context, id int64) ([]byte, error) {
	ctx, span := dirTracer.Start(ctx, "TemplateService.Content")
	defer span.End()

	return s.store.GetTemplateContent(ctx, id)
}
