// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the relational store.
package port

import (
	"context"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
)

// BranchStore reads the branch directory.
type BranchStore interface {
	ListBranches(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Bureau], error)
	GetBranch(ctx context.Context, code int) (*domain.Bureau, error)
	ListAllBranches(ctx context.Context) ([]domain.Bureau, error)
	ListChildBranches(ctx context.Context, code int) ([]domain.Bureau, error)
}

// AccountStore reads CCP and CEN accounts. Aggregates always cover the
// whole filtered set.
type AccountStore interface {
	GetCCPAccount(ctx context.Context, numero string) (*domain.CompteCCP, error)
	ListCCPByCategory(ctx context.Context, categorie string, req domain.PageRequest) (domain.Page[domain.CompteCCP], error)
	ListCCPByOpeningDate(ctx context.Context, day time.Time, req domain.PageRequest) (domain.Page[domain.CompteCCP], error)
	ListCCPByClient(ctx context.Context, clientID int64) ([]domain.CompteCCP, error)

	FindCCPByBranch(ctx context.Context, f domain.CCPFilter, req domain.PageRequest) (domain.Page[domain.CompteCCP], error)
	ListCCPByBranch(ctx context.Context, f domain.CCPFilter) ([]domain.CompteCCP, error)
	AggregateCCP(ctx context.Context, f domain.CCPFilter) (domain.AccountAggregate, error)
	TopCCPByBalance(ctx context.Context, codeBureau, limit int) ([]domain.CompteCCP, error)

	FindCENByBranch(ctx context.Context, f domain.CENFilter, req domain.PageRequest) (domain.Page[domain.CompteCEN], error)
	ListCENByBranch(ctx context.Context, f domain.CENFilter) ([]domain.CompteCEN, error)
	AggregateCEN(ctx context.Context, f domain.CENFilter) (domain.AccountAggregate, error)
}

// ClientStore reads clients.
type ClientStore interface {
	ListClients(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Client], error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	ListClientsByStatus(ctx context.Context, status string, req domain.PageRequest) (domain.Page[domain.Client], error)
}

// MovementStore reads posted movements.
type MovementStore interface {
	FindMovementsByBranch(ctx context.Context, f domain.MovementFilter, req domain.PageRequest) (domain.Page[domain.Mouvement], error)
	ListMovementsByBranch(ctx context.Context, f domain.MovementFilter) ([]domain.Mouvement, error)
	AggregateMovements(ctx context.Context, f domain.MovementFilter) (domain.MovementAggregate, error)
	ListMovementsByAccount(ctx context.Context, numero string, req domain.PageRequest) (domain.Page[domain.Mouvement], error)
}

// TemplateStore reads persisted report definitions.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]domain.ReportTemplate, error)
	GetTemplate(ctx context.Context, id int64) (*domain.ReportTemplate, error)
	GetTemplateContent(ctx context.Context, id int64) ([]byte, error)
}

// HealthChecker pings the backing store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Store is the full data access surface of one backend.
type Store interface {
	BranchStore
	AccountStore
	ClientStore
	MovementStore
	TemplateStore
	HealthChecker
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
