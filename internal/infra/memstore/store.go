// Package memstore is an in-memory implementation of port.Store with the
// same filtering, ordering and aggregation rules as the PostgreSQL store.
// It backs the service when no database is configured and serves as the
// fake in tests.
package memstore

import (
	"context"
	"sync"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("memstore")

// Store holds every table in memory. Add* methods are safe for concurrent use
// with reads.
type Store struct {
	mu sync.RWMutex

	branches  []domain.Bureau
	clients   map[int64]domain.Client
	ccp       []domain.CompteCCP
	cen       []domain.CompteCEN
	movements []domain.Mouvement
	templates []domain.ReportTemplate
	contents  map[int64][]byte

	cspLabels       map[string]string
	operationLabels map[string]string

	failures map[string]error
	calls    map[string]int
	nextID   int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		clients:         make(map[int64]domain.Client),
		contents:        make(map[int64][]byte),
		cspLabels:       make(map[string]string),
		operationLabels: make(map[string]string),
		failures:        make(map[string]error),
		calls:           make(map[string]int),
	}
}

// FailWith makes every call of operation op return err. A nil err clears it.
func (s *Store) FailWith(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns how many times operation op was invoked.
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

// Ping succeeds unless a failure was injected.
func (s *Store) Ping(ctx context.Context) error {
	_, span := tracer.Start(ctx, "Memstore.Ping")
	defer span.End()
	return s.begin(ctx, "Ping")
}

// begin counts the call and reports an injected failure or a done context.
func (s *Store) begin(ctx context.Context, op string) error {
	s.mu.Lock()
	s.calls[op]++
	err := s.failures[op]
	s.mu.Unlock()

	if err != nil {
		return err
	}
	return ctx.Err()
}

// ============================================================
// Loading
// ============================================================

func (s *Store) AddBranches(branches ...domain.Bureau) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = append(s.branches, branches...)
}

func (s *Store) AddClients(clients ...domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range clients {
		s.clients[c.ID] = c
	}
}

func (s *Store) AddCCPAccounts(accounts ...domain.CompteCCP) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ccp = append(s.ccp, accounts...)
}

func (s *Store) AddCENAccounts(accounts ...domain.CompteCEN) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cen = append(s.cen, accounts...)
}

// AddMovements appends movements, assigning IDs to those without one.
func (s *Store) AddMovements(movements ...domain.Mouvement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range movements {
		if m.ID == 0 {
			s.nextID++
			m.ID = s.nextID
		} else if m.ID > s.nextID {
			s.nextID = m.ID
		}
		s.movements = append(s.movements, m)
	}
}

// AddTemplate stores a template and its optional binary content.
func (s *Store) AddTemplate(t domain.ReportTemplate, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.HasContent = content != nil
	for i := range t.Parameters {
		t.Parameters[i].TemplateID = t.ID
	}
	s.templates = append(s.templates, t)
	if content != nil {
		s.contents[t.ID] = content
	}
}

func (s *Store) SetCSPLabel(code, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cspLabels[code] = label
}

func (s *Store) SetOperationLabel(code, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operationLabels[code] = label
}
