package ledger

import (
	"sort"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Aggregate resultado de agregar el historial de compras, salidas y solicitudes de una clave.
type Aggregate struct {
	Key            entity.ProductKey
	Supplied       decimal.Decimal
	Issued         decimal.Decimal
	LatestPurchase *entity.PurchaseRecord
	Pending        decimal.Decimal
	Approved       decimal.Decimal
	PoCreated      decimal.Decimal
	Rejected       decimal.Decimal
	LatestRequest  *entity.PurchaseRequest
	RecordIDs      []string // compras sumadas en Supplied
}

// CurrentStock = max(0, compras - salidas). Es una re-derivación pura, nunca un acumulado.
func (a *Aggregate) CurrentStock() decimal.Decimal {
	return decimal.Max(decimal.Zero, a.Supplied.Sub(a.Issued))
}

// Unit unidad de la compra más reciente o, en su defecto, de la solicitud más reciente.
func (a *Aggregate) Unit() string {
	if a.LatestPurchase != nil && a.LatestPurchase.Unit != "" {
		return a.LatestPurchase.Unit
	}
	if a.LatestRequest != nil {
		return a.LatestRequest.Unit
	}
	return ""
}

// BuildResult agregados por clave más el número de filas descartadas por mal formadas.
type BuildResult struct {
	Aggregates map[entity.ProductKey]*Aggregate
	Skipped    int
}

// Keys devuelve las claves ordenadas (orden determinista para los upserts).
func (r BuildResult) Keys() []entity.ProductKey {
	keys := make([]entity.ProductKey, 0, len(r.Aggregates))
	for k := range r.Aggregates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Build agrupa compras y solicitudes abiertas por clave compuesta.
// Las filas sin alguna parte de la clave, con cantidad no positiva o con estado desconocido
// se descartan sin abortar. Las salidas solo restan sobre claves que ya existen.
func Build(records []*entity.PurchaseRecord, requests []*entity.PurchaseRequest, issues []*entity.StockIssue) BuildResult {
	res := BuildResult{Aggregates: make(map[entity.ProductKey]*Aggregate)}
	get := func(k entity.ProductKey) *Aggregate {
		a, ok := res.Aggregates[k]
		if !ok {
			a = &Aggregate{Key: k}
			res.Aggregates[k] = a
		}
		return a
	}

	for _, rec := range records {
		if rec == nil || !rec.Key.Valid() || !rec.Quantity.IsPositive() {
			res.Skipped++
			continue
		}
		a := get(rec.Key)
		a.Supplied = a.Supplied.Add(rec.Quantity)
		a.RecordIDs = append(a.RecordIDs, rec.ID)
		if a.LatestPurchase == nil || rec.IsNewerThan(a.LatestPurchase) {
			a.LatestPurchase = rec
		}
	}

	for _, req := range requests {
		if req == nil || !req.Key.Valid() || !req.QuantityRequired.IsPositive() || !entity.IsValidRequestStatus(req.Status) {
			res.Skipped++
			continue
		}
		if !req.IsOpen() {
			continue
		}
		get(req.Key).addRequest(req)
	}

	for _, iss := range issues {
		if iss == nil || !iss.Quantity.IsPositive() {
			continue
		}
		if a, ok := res.Aggregates[iss.Key]; ok {
			a.Issued = a.Issued.Add(iss.Quantity)
		}
	}
	return res
}

func (a *Aggregate) addRequest(req *entity.PurchaseRequest) {
	switch req.Status {
	case entity.RequestStatusPending:
		a.Pending = a.Pending.Add(req.QuantityRequired)
	case entity.RequestStatusApproved:
		a.Approved = a.Approved.Add(req.QuantityRequired)
	case entity.RequestStatusPOCreated:
		a.PoCreated = a.PoCreated.Add(req.QuantityRequired)
	case entity.RequestStatusRejected:
		a.Rejected = a.Rejected.Add(req.QuantityRequired)
	}
	if a.LatestRequest == nil || req.IsNewerThan(a.LatestRequest) {
		a.LatestRequest = req
	}
}

// Refresh recalcula el pipeline y las salidas de la clave con lo leído bajo el lock de la fila;
// incluye los consumos y cambios de solicitud confirmados después de Build.
// Las compras no se releen: las que no estén en RecordIDs quedan para la conciliación.
func (a *Aggregate) Refresh(requests []*entity.PurchaseRequest, issued decimal.Decimal) {
	a.Pending, a.Approved, a.PoCreated, a.Rejected = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	a.LatestRequest = nil
	for _, req := range requests {
		if req == nil || req.Key != a.Key || !req.IsOpen() || !req.QuantityRequired.IsPositive() || !entity.IsValidRequestStatus(req.Status) {
			continue
		}
		a.addRequest(req)
	}
	a.Issued = issued
}

// Apply vuelca el agregado sobre la fila del ledger. Si existing es nil crea una fila nueva
// con umbrales en cero y suspended; si existe, solo sobrescribe los campos derivados y
// conserva los umbrales configurados por el operador.
func Apply(existing *entity.StockDetail, companyID string, agg *Aggregate, now time.Time) *entity.StockDetail {
	d := existing
	if d == nil {
		d = &entity.StockDetail{
			CompanyID:         companyID,
			Key:               agg.Key,
			MinRequired:       decimal.Zero,
			SafeQuantityLimit: decimal.Zero,
			DisplayStatus:     entity.DisplayStatusSuspended,
			CreatedAt:         now,
		}
	}
	if d.Unit == "" {
		d.Unit = agg.Unit()
	}
	d.CurrentStock = agg.CurrentStock()
	d.PendingQuantity = agg.Pending
	d.ApprovedQuantity = agg.Approved
	d.PoCreatedQuantity = agg.PoCreated
	d.RejectedQuantity = agg.Rejected
	if agg.LatestPurchase != nil {
		purchaseDate := agg.LatestPurchase.PurchaseDate
		d.LastPurchaseDate = &purchaseDate
		d.PricePerUnit = agg.LatestPurchase.PricePerUnit
	}
	if agg.LatestRequest != nil {
		status := agg.LatestRequest.Status
		d.LastRequestStatus = &status
	} else {
		d.LastRequestStatus = nil
	}
	d.UpdatedAt = now
	d.EnforceDisplayStatus()
	return d
}
