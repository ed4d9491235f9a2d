package ledger

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RequestSync cambio de estado o de cantidad de una solicitud de compra.
// OldQuantity solo se informa cuando se editó la cantidad de una solicitud pendiente
// (o es cero al crearla). Uncounted indica que la solicitud venía de un ciclo cerrado por la
// conciliación, así que su cantidad anterior no está en ningún contador.
type RequestSync struct {
	Status      string
	Quantity    decimal.Decimal
	OldQuantity *decimal.Decimal
	Uncounted   bool
}

// Validate revisa estado conocido y cantidades positivas.
func (s RequestSync) Validate() error {
	if !entity.IsValidRequestStatus(s.Status) {
		return domain.ErrInvalidInput
	}
	if !s.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	if s.OldQuantity != nil && s.OldQuantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyRequestSync aplica sobre la fila el delta implicado por la solicitud:
//  1. ajuste de cantidad (Quantity - OldQuantity) sobre pending, con piso 0;
//  2. efecto del estado: approved/rejected mueven Quantity desde pending (piso 0);
//     "PO Created" copia approved en po_created (snapshot, no suma); pending no mueve nada.
//
// Con Uncounted la cantidad anterior se toma como cero: approved/rejected suman sin restar de
// pending y "PO Created" suma Quantity a approved antes de copiarlo.
func ApplyRequestSync(d *entity.StockDetail, s RequestSync, now time.Time) {
	if s.OldQuantity != nil {
		old := *s.OldQuantity
		if s.Uncounted {
			old = decimal.Zero
		}
		if !old.Equal(s.Quantity) {
			d.PendingQuantity = floorZero(d.PendingQuantity.Add(s.Quantity.Sub(old)))
		}
	}

	switch s.Status {
	case entity.RequestStatusApproved:
		if !s.Uncounted {
			d.PendingQuantity = floorZero(d.PendingQuantity.Sub(s.Quantity))
		}
		d.ApprovedQuantity = d.ApprovedQuantity.Add(s.Quantity)
	case entity.RequestStatusRejected:
		if !s.Uncounted {
			d.PendingQuantity = floorZero(d.PendingQuantity.Sub(s.Quantity))
		}
		d.RejectedQuantity = d.RejectedQuantity.Add(s.Quantity)
	case entity.RequestStatusPOCreated:
		if s.Uncounted {
			d.ApprovedQuantity = d.ApprovedQuantity.Add(s.Quantity)
		}
		d.PoCreatedQuantity = d.ApprovedQuantity
	}

	status := s.Status
	d.LastRequestStatus = &status
	d.UpdatedAt = now
}

func floorZero(v decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, v)
}
