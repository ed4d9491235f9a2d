package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseRequest_CanTransitionTo(t *testing.T) {
	allowed := map[string][]string{
		RequestStatusPending:   {RequestStatusApproved, RequestStatusRejected},
		RequestStatusApproved:  {RequestStatusPOCreated},
		RequestStatusRejected:  nil,
		RequestStatusPOCreated: nil,
	}
	all := []string{RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusPOCreated}
	for from, ok := range allowed {
		r := &PurchaseRequest{Status: from}
		for _, to := range all {
			assert.Equal(t, contains(ok, to), r.CanTransitionTo(to), "%s → %s", from, to)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestPurchaseRequest_IsNewerThan(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := &PurchaseRequest{ID: "a", CreatedAt: t0, UpdatedAt: t0.Add(time.Hour)}
	b := &PurchaseRequest{ID: "b", CreatedAt: t0, UpdatedAt: t0}
	assert.True(t, a.IsNewerThan(b))
	assert.False(t, b.IsNewerThan(a))

	c := &PurchaseRequest{ID: "c", CreatedAt: t0, UpdatedAt: t0}
	assert.True(t, c.IsNewerThan(b), "empate en fechas se resuelve por ID")
}

func TestIsValidRequestStatus(t *testing.T) {
	assert.True(t, IsValidRequestStatus("PO Created"))
	assert.False(t, IsValidRequestStatus("po created"))
	assert.False(t, IsValidRequestStatus(""))
}

func TestPurchaseRequest_Reopen(t *testing.T) {
	closedAt := time.Now()
	r := &PurchaseRequest{Status: RequestStatusPending, CycleClosedAt: &closedAt}
	assert.True(t, r.Reopen())
	assert.True(t, r.IsOpen())
	assert.False(t, r.Reopen(), "una solicitud abierta no cambia")
}
