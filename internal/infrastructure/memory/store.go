// Package memory implementa los puertos de persistencia en memoria del proceso.
// Sirve para pruebas y para STORE_DRIVER=memory (demo sin PostgreSQL).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)

type state struct {
	details  map[string]*entity.StockDetail
	requests map[string]*entity.PurchaseRequest
	records  map[string]*entity.PurchaseRecord
	issues   []*entity.StockIssue
}

func newState() *state {
	return &state{
		details:  make(map[string]*entity.StockDetail),
		requests: make(map[string]*entity.PurchaseRequest),
		records:  make(map[string]*entity.PurchaseRecord),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, d := range s.details {
		c.details[id] = cloneDetail(d)
	}
	for id, r := range s.requests {
		c.requests[id] = cloneRequest(r)
	}
	for id, r := range s.records {
		c.records[id] = cloneRecord(r)
	}
	c.issues = make([]*entity.StockIssue, len(s.issues))
	for i, is := range s.issues {
		cp := *is
		c.issues[i] = &cp
	}
	return c
}

// Store guarda el estado completo bajo un único mutex. Una transacción (Run) retiene el mutex
// de principio a fin, así que las transacciones quedan serializadas y GetForUpdate no necesita
// bloqueo adicional.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con repos atados a una copia del estado; si fn falla se descarta la copia.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockDetailRepository,
	requestRepo repository.PurchaseRequestRepository,
	recordRepo repository.PurchaseRecordRepository,
	issueRepo repository.StockIssueRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := &txView{st: work}
	if err := fn(
		&StockDetailRepo{v: tx},
		&PurchaseRequestRepo{v: tx},
		&PurchaseRecordRepo{v: tx},
		&StockIssueRepo{v: tx},
	); err != nil {
		return err
	}
	s.st = work
	return nil
}

// StockDetails repo fuera de transacción.
func (s *Store) StockDetails() *StockDetailRepo { return &StockDetailRepo{v: s} }

// PurchaseRequests repo fuera de transacción.
func (s *Store) PurchaseRequests() *PurchaseRequestRepo { return &PurchaseRequestRepo{v: s} }

// PurchaseRecords repo fuera de transacción.
func (s *Store) PurchaseRecords() *PurchaseRecordRepo { return &PurchaseRecordRepo{v: s} }

// StockIssues repo fuera de transacción.
func (s *Store) StockIssues() *StockIssueRepo { return &StockIssueRepo{v: s} }

// view da acceso al estado: el Store toma su mutex por operación; txView ya lo tiene tomado.
type view interface {
	with(fn func(st *state) error) error
}

func (s *Store) with(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

type txView struct {
	st *state
}

func (t *txView) with(fn func(st *state) error) error {
	return fn(t.st)
}

func cloneDetail(d *entity.StockDetail) *entity.StockDetail {
	cp := *d
	if d.LastRequestStatus != nil {
		v := *d.LastRequestStatus
		cp.LastRequestStatus = &v
	}
	if d.LastPurchaseDate != nil {
		v := *d.LastPurchaseDate
		cp.LastPurchaseDate = &v
	}
	return &cp
}

func cloneRequest(r *entity.PurchaseRequest) *entity.PurchaseRequest {
	cp := *r
	if r.PurchaseOrderID != nil {
		v := *r.PurchaseOrderID
		cp.PurchaseOrderID = &v
	}
	if r.CycleClosedAt != nil {
		v := *r.CycleClosedAt
		cp.CycleClosedAt = &v
	}
	return &cp
}

func cloneRecord(r *entity.PurchaseRecord) *entity.PurchaseRecord {
	cp := *r
	if r.ReconciledAt != nil {
		v := *r.ReconciledAt
		cp.ReconciledAt = &v
	}
	return &cp
}
