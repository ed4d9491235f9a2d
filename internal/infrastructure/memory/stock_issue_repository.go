package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockIssueRepository = (*StockIssueRepo)(nil)

// StockIssueRepo salidas de stock en memoria, en orden de registro.
type StockIssueRepo struct {
	v view
}

func (r *StockIssueRepo) Create(ctx context.Context, s *entity.StockIssue) error {
	return r.v.with(func(st *state) error {
		cp := *s
		st.issues = append(st.issues, &cp)
		return nil
	})
}

func (r *StockIssueRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockIssue, error) {
	var out []*entity.StockIssue
	err := r.v.with(func(st *state) error {
		for _, s := range st.issues {
			if s.CompanyID == companyID {
				cp := *s
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *StockIssueRepo) SumByKey(ctx context.Context, companyID string, key entity.ProductKey) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.with(func(st *state) error {
		for _, s := range st.issues {
			if s.CompanyID == companyID && s.Key == key {
				total = total.Add(s.Quantity)
			}
		}
		return nil
	})
	return total, err
}
