package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockDetailRepository = (*StockDetailRepo)(nil)

// StockDetailRepo ledger de stock en memoria.
type StockDetailRepo struct {
	v view
}

func findDetail(st *state, companyID string, key entity.ProductKey) *entity.StockDetail {
	for _, d := range st.details {
		if d.CompanyID == companyID && d.Key == key {
			return d
		}
	}
	return nil
}

func (r *StockDetailRepo) Get(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error) {
	var out *entity.StockDetail
	err := r.v.with(func(st *state) error {
		if d := findDetail(st, companyID, key); d != nil {
			out = cloneDetail(d)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a Get: el mutex del store ya serializa las transacciones.
func (r *StockDetailRepo) GetForUpdate(ctx context.Context, companyID string, key entity.ProductKey) (*entity.StockDetail, error) {
	return r.Get(ctx, companyID, key)
}

func (r *StockDetailRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockDetail, error) {
	var out *entity.StockDetail
	err := r.v.with(func(st *state) error {
		if d, ok := st.details[id]; ok && d.CompanyID == companyID {
			out = cloneDetail(d)
		}
		return nil
	})
	return out, err
}

func (r *StockDetailRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockDetail, error) {
	var out []*entity.StockDetail
	err := r.v.with(func(st *state) error {
		for _, d := range st.details {
			if d.CompanyID == companyID {
				out = append(out, cloneDetail(d))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out, err
}

func (r *StockDetailRepo) Create(ctx context.Context, d *entity.StockDetail) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.details[d.ID]; ok {
			return domain.ErrDuplicate
		}
		if findDetail(st, d.CompanyID, d.Key) != nil {
			return domain.ErrDuplicate
		}
		if d.SafeQuantityLimit.GreaterThan(d.MinRequired) {
			return domain.ErrInvalidInput
		}
		st.details[d.ID] = cloneDetail(d)
		return nil
	})
}

func (r *StockDetailRepo) Update(ctx context.Context, d *entity.StockDetail) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.details[d.ID]
		if !ok || cur.CompanyID != d.CompanyID {
			return domain.ErrNotFound
		}
		if d.SafeQuantityLimit.GreaterThan(d.MinRequired) {
			return domain.ErrInvalidInput
		}
		upd := cloneDetail(d)
		upd.Key = cur.Key
		upd.CreatedAt = cur.CreatedAt
		st.details[d.ID] = upd
		return nil
	})
}

func (r *StockDetailRepo) Delete(ctx context.Context, companyID, id string) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.details[id]
		if !ok || cur.CompanyID != companyID {
			return domain.ErrNotFound
		}
		delete(st.details, id)
		return nil
	})
}
