package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo solicitudes de compra en memoria.
type PurchaseRequestRepo struct {
	v view
}

func (r *PurchaseRequestRepo) Create(ctx context.Context, p *entity.PurchaseRequest) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.requests[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.requests[p.ID] = cloneRequest(p)
		return nil
	})
}

func (r *PurchaseRequestRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	var out *entity.PurchaseRequest
	err := r.v.with(func(st *state) error {
		if p, ok := st.requests[id]; ok && p.CompanyID == companyID {
			out = cloneRequest(p)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *PurchaseRequestRepo) Update(ctx context.Context, p *entity.PurchaseRequest) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.requests[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrNotFound
		}
		upd := cloneRequest(p)
		upd.Key = cur.Key
		upd.CreatedAt = cur.CreatedAt
		st.requests[p.ID] = upd
		return nil
	})
}

// List ordena como el adaptador SQL: más recientes primero.
func (r *PurchaseRequestRepo) List(ctx context.Context, companyID string, f repository.PurchaseRequestFilter) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	err := r.v.with(func(st *state) error {
		for _, p := range st.requests {
			if p.CompanyID != companyID {
				continue
			}
			if f.Status != "" && p.Status != f.Status {
				continue
			}
			if f.OpenOnly && !p.IsOpen() {
				continue
			}
			out = append(out, cloneRequest(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IsNewerThan(out[j]) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *PurchaseRequestRepo) ListOpenByKey(ctx context.Context, companyID string, key entity.ProductKey) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	err := r.v.with(func(st *state) error {
		for _, p := range st.requests {
			if p.CompanyID == companyID && p.Key == key && p.IsOpen() {
				out = append(out, cloneRequest(p))
			}
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRequestRepo) CloseCycle(ctx context.Context, companyID string, key entity.ProductKey, until, closedAt time.Time) (int64, error) {
	var n int64
	err := r.v.with(func(st *state) error {
		for _, p := range st.requests {
			if p.CompanyID != companyID || p.Key != key || !p.IsOpen() || p.CreatedAt.After(until) {
				continue
			}
			at := closedAt
			p.CycleClosedAt = &at
			n++
		}
		return nil
	})
	return n, err
}

func paginate[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		return list
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
