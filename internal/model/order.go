package model

import "github.com/shopspring/decimal"

func init() {
	// Order totals travel as JSON numbers, the way the persisted documents hold them.
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID             int             `json:"id"`
	SourceID       int             `json:"source_id"`
	OrderDate      string          `json:"order_date"`
	RequestDate    string          `json:"request_date"`
	Reference      string          `json:"reference"`
	ReferenceExtra string          `json:"reference_extra"`
	OrderStatus    string          `json:"order_status"`
	Notes          string          `json:"notes"`
	ShippingNotes  string          `json:"shipping_notes"`
	PickingNotes   string          `json:"picking_notes"`
	WarehouseID    int             `json:"warehouse_id" validate:"gt=0"`
	ShipTo         int             `json:"ship_to"`
	BillTo         int             `json:"bill_to"`
	ShipmentID     int             `json:"shipment_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalSurcharge decimal.Decimal `json:"total_surcharge"`
	Items          []ItemAmount    `json:"items" validate:"dive"`
	Timestamps
}

func (o *Order) RecordKey() int { return o.ID }
func (o *Order) AssignKey(id int) { o.ID = id }

func (o *Order) Clone() Order {
	out := *o
	out.Items = cloneItems(o.Items)
	return out
}

// CommitLocation is the location an order draws stock from.
func (o *Order) CommitLocation() int {
	if o.SourceID != 0 {
		return o.SourceID
	}
	return o.WarehouseID
}

type OrderPatch struct {
	SourceID       Optional[int]             `json:"source_id"`
	OrderDate      Optional[string]          `json:"order_date"`
	RequestDate    Optional[string]          `json:"request_date"`
	Reference      Optional[string]          `json:"reference"`
	ReferenceExtra Optional[string]          `json:"reference_extra"`
	OrderStatus    Optional[string]          `json:"order_status"`
	Notes          Optional[string]          `json:"notes"`
	ShippingNotes  Optional[string]          `json:"shipping_notes"`
	PickingNotes   Optional[string]          `json:"picking_notes"`
	WarehouseID    Optional[int]             `json:"warehouse_id"`
	ShipTo         Optional[int]             `json:"ship_to"`
	BillTo         Optional[int]             `json:"bill_to"`
	ShipmentID     Optional[int]             `json:"shipment_id"`
	TotalAmount    Optional[decimal.Decimal] `json:"total_amount"`
	TotalDiscount  Optional[decimal.Decimal] `json:"total_discount"`
	TotalTax       Optional[decimal.Decimal] `json:"total_tax"`
	TotalSurcharge Optional[decimal.Decimal] `json:"total_surcharge"`
	Items          Optional[[]ItemAmount]    `json:"items"`
}

func (p OrderPatch) Apply(o *Order) {
	p.SourceID.ApplyTo(&o.SourceID)
	p.OrderDate.ApplyTo(&o.OrderDate)
	p.RequestDate.ApplyTo(&o.RequestDate)
	p.Reference.ApplyTo(&o.Reference)
	p.ReferenceExtra.ApplyTo(&o.ReferenceExtra)
	p.OrderStatus.ApplyTo(&o.OrderStatus)
	p.Notes.ApplyTo(&o.Notes)
	p.ShippingNotes.ApplyTo(&o.ShippingNotes)
	p.PickingNotes.ApplyTo(&o.PickingNotes)
	p.WarehouseID.ApplyTo(&o.WarehouseID)
	p.ShipTo.ApplyTo(&o.ShipTo)
	p.BillTo.ApplyTo(&o.BillTo)
	p.ShipmentID.ApplyTo(&o.ShipmentID)
	p.TotalAmount.ApplyTo(&o.TotalAmount)
	p.TotalDiscount.ApplyTo(&o.TotalDiscount)
	p.TotalTax.ApplyTo(&o.TotalTax)
	p.TotalSurcharge.ApplyTo(&o.TotalSurcharge)
	if p.Items.Set {
		o.Items = cloneItems(p.Items.Value)
	}
}

type OrderCriteria struct {
	WarehouseID *int
	OrderStatus string
	Reference   string
	ShipTo      *int
	BillTo      *int
	ShipmentID  *int
}

func (c OrderCriteria) Empty() bool {
	return blank(c.OrderStatus, c.Reference) && unset(c.WarehouseID, c.ShipTo, c.BillTo, c.ShipmentID)
}

func (c OrderCriteria) Match(o Order) bool {
	return matchInt(o.WarehouseID, c.WarehouseID) &&
		matchString(o.OrderStatus, c.OrderStatus) &&
		matchString(o.Reference, c.Reference) &&
		matchInt(o.ShipTo, c.ShipTo) &&
		matchInt(o.BillTo, c.BillTo) &&
		matchInt(o.ShipmentID, c.ShipmentID)
}
