package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de compra.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusPOCreated = "PO Created"
)

// Prioridades de una solicitud de compra.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// IsValidRequestStatus informa si s es uno de los cuatro estados conocidos.
func IsValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusPOCreated:
		return true
	}
	return false
}

// PurchaseRequest solicitud de un empleado para reponer un producto.
// Transiciones: pending→approved, pending→rejected, approved→PO Created.
type PurchaseRequest struct {
	ID               string
	CompanyID        string
	Key              ProductKey
	QuantityRequired decimal.Decimal
	Unit             string
	Status           string
	Priority         string
	EmployeeName     string
	EmployeeEmail    string
	Reason           string
	RequestedDate    time.Time
	PurchaseOrderID  *string
	CycleClosedAt    *time.Time // ciclo de compra cerrado por la conciliación
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransitionTo valida la transición de estado (unidireccional).
func (r *PurchaseRequest) CanTransitionTo(next string) bool {
	switch r.Status {
	case RequestStatusPending:
		return next == RequestStatusApproved || next == RequestStatusRejected
	case RequestStatusApproved:
		return next == RequestStatusPOCreated
	}
	return false
}

// IsOpen indica si la solicitud sigue contando en el pipeline del ledger.
func (r *PurchaseRequest) IsOpen() bool {
	return r.CycleClosedAt == nil
}

// Reopen vuelve a abrir el ciclo de una solicitud cerrada por la conciliación cuando cambia
// de estado o de cantidad. Devuelve true si estaba cerrada: su cantidad no contaba en el pipeline.
func (r *PurchaseRequest) Reopen() bool {
	if r.CycleClosedAt == nil {
		return false
	}
	r.CycleClosedAt = nil
	return true
}

// IsNewerThan compara por última modificación, luego creación, luego ID.
func (r *PurchaseRequest) IsNewerThan(o *PurchaseRequest) bool {
	if !r.UpdatedAt.Equal(o.UpdatedAt) {
		return r.UpdatedAt.After(o.UpdatedAt)
	}
	if !r.CreatedAt.Equal(o.CreatedAt) {
		return r.CreatedAt.After(o.CreatedAt)
	}
	return r.ID > o.ID
}
