// Package memory implements the repositories over an in-process store: an
// ordered movement log plus per-product indexes, guarded by one mutex. It
// backs unit tests and demo runs without PostgreSQL; the transactional
// contract matches the postgres implementation (all-or-nothing Run).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// Store holds all state. The movement slice is append-only and id-ordered;
// byProduct is the secondary index used for balance and batch derivation.
type Store struct {
	mu             sync.Mutex
	products       map[string]*entity.Product
	customers      map[string]*entity.Customer
	documents      map[string]*entity.Document
	movements      []*entity.StockMovement
	byProduct      map[string][]int // indexes into movements
	nextMovementID int64
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*entity.Product),
		customers: make(map[string]*entity.Customer),
		documents: make(map[string]*entity.Document),
		byProduct: make(map[string][]int),
	}
}

// Products returns the catalog repository.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Customers returns the counterparty repository.
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s: s} }

// Documents returns the document repository.
func (s *Store) Documents() repository.DocumentRepository { return &documentRepo{s: s} }

// Movements returns the stock ledger repository.
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s: s} }

// TxRunner returns a posting.TxRunner over this store.
func (s *Store) TxRunner() posting.TxRunner { return &txRunner{s: s} }

// txRunner serializes transactions with the store mutex and rolls the state
// back if fn fails, so partially applied postings are never observable.
type txRunner struct {
	s *Store
}

func (t *txRunner) Run(ctx context.Context, fn func(
	docs repository.DocumentRepository,
	movements repository.StockMovementRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	movLen := len(t.s.movements)
	nextID := t.s.nextMovementID
	docsBackup := make(map[string]*entity.Document, len(t.s.documents))
	for id, d := range t.s.documents {
		cp := *d
		docsBackup[id] = &cp
	}

	err := fn(&documentRepo{s: t.s, inTx: true}, &movementRepo{s: t.s, inTx: true})
	if err != nil {
		t.s.movements = t.s.movements[:movLen]
		t.s.nextMovementID = nextID
		t.s.documents = docsBackup
		t.s.rebuildIndex()
		return err
	}
	return nil
}

func (s *Store) rebuildIndex() {
	s.byProduct = make(map[string][]int)
	for i, m := range s.movements {
		s.byProduct[m.ProductID] = append(s.byProduct[m.ProductID], i)
	}
}

// lock acquires the store mutex unless the caller is already inside a
// transaction (which holds it for its whole duration).
func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ── products ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(p *entity.Product) error {
	defer r.s.lock(false)()
	if _, ok := r.s.products[p.ID]; ok {
		return fmt.Errorf("%w: product %s", domain.ErrDuplicate, p.ID)
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.lock(false)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) List() ([]*entity.Product, error) {
	defer r.s.lock(false)()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *productRepo) Update(p *entity.Product) error {
	defer r.s.lock(false)()
	if _, ok := r.s.products[p.ID]; !ok {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, p.ID)
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// ── customers ───────────────────────────────────────────────────────────────

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(c *entity.Customer) error {
	defer r.s.lock(false)()
	if _, ok := r.s.customers[c.ID]; ok {
		return fmt.Errorf("%w: customer %s", domain.ErrDuplicate, c.ID)
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	defer r.s.lock(false)()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) List() ([]*entity.Customer, error) {
	defer r.s.lock(false)()
	list := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *customerRepo) Update(c *entity.Customer) error {
	defer r.s.lock(false)()
	if _, ok := r.s.customers[c.ID]; !ok {
		return fmt.Errorf("%w: customer %s", domain.ErrNotFound, c.ID)
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

// ── documents ───────────────────────────────────────────────────────────────

type documentRepo struct {
	s    *Store
	inTx bool
}

func (r *documentRepo) Create(d *entity.Document) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.documents[d.ID]; ok {
		return fmt.Errorf("%w: document %s", domain.ErrDuplicate, d.ID)
	}
	cp := *d
	r.s.documents[d.ID] = &cp
	return nil
}

func (r *documentRepo) GetByID(id string) (*entity.Document, error) {
	defer r.s.lock(r.inTx)()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *documentRepo) ListByType(docType entity.DocumentType) ([]*entity.Document, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Document
	for _, d := range r.s.documents {
		if d.Type != docType {
			continue
		}
		cp := *d
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *documentRepo) UpdateStatus(id string, status entity.DocumentStatus, at time.Time) error {
	defer r.s.lock(r.inTx)()
	d, ok := r.s.documents[id]
	if !ok {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	d.Status = status
	switch status {
	case entity.StatusPosted:
		d.PostedAt = &at
	case entity.StatusCancelled:
		d.CancelledAt = &at
	}
	return nil
}
