package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.PurchaseRecordRepository = (*PurchaseRecordRepo)(nil)

// PurchaseRecordRepo compras registradas en memoria.
type PurchaseRecordRepo struct {
	v view
}

func (r *PurchaseRecordRepo) Create(ctx context.Context, p *entity.PurchaseRecord) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.records[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.records[p.ID] = cloneRecord(p)
		return nil
	})
}

func (r *PurchaseRecordRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.PurchaseRecord, error) {
	out, err := r.list(companyID, false)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IsNewerThan(out[j]) })
	return paginate(out, limit, offset), nil
}

func (r *PurchaseRecordRepo) ListUnreconciled(ctx context.Context, companyID string) ([]*entity.PurchaseRecord, error) {
	out, err := r.list(companyID, true)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[j].IsNewerThan(out[i]) })
	return out, nil
}

func (r *PurchaseRecordRepo) list(companyID string, unreconciledOnly bool) ([]*entity.PurchaseRecord, error) {
	var out []*entity.PurchaseRecord
	err := r.v.with(func(st *state) error {
		for _, p := range st.records {
			if p.CompanyID != companyID || (unreconciledOnly && p.ReconciledAt != nil) {
				continue
			}
			out = append(out, cloneRecord(p))
		}
		return nil
	})
	return out, err
}

func (r *PurchaseRecordRepo) MarkReconciled(ctx context.Context, companyID string, ids []string, at time.Time) error {
	return r.v.with(func(st *state) error {
		for _, id := range ids {
			p, ok := st.records[id]
			if !ok || p.CompanyID != companyID || p.ReconciledAt != nil {
				continue
			}
			stamp := at
			p.ReconciledAt = &stamp
		}
		return nil
	})
}
