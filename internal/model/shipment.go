package model

type Shipment struct {
	ID                 int          `json:"id"`
	OrderID            int          `json:"order_id"`
	SourceID           int          `json:"source_id" validate:"gt=0"`
	OrderDate          string       `json:"order_date"`
	RequestDate        string       `json:"request_date"`
	ShipmentDate       string       `json:"shipment_date"`
	ShipmentType       string       `json:"shipment_type"`
	ShipmentStatus     string       `json:"shipment_status"`
	Notes              string       `json:"notes"`
	CarrierCode        string       `json:"carrier_code"`
	CarrierDescription string       `json:"carrier_description"`
	ServiceCode        string       `json:"service_code"`
	PaymentType        string       `json:"payment_type"`
	TransferMode       string       `json:"transfer_mode"`
	TotalPackageCount  int          `json:"total_package_count" validate:"gte=0"`
	TotalPackageWeight float64      `json:"total_package_weight" validate:"gte=0"`
	Items              []ItemAmount `json:"items" validate:"dive"`
	Timestamps
}

func (s *Shipment) RecordKey() int { return s.ID }
func (s *Shipment) AssignKey(id int) { s.ID = id }

func (s *Shipment) Clone() Shipment {
	out := *s
	out.Items = cloneItems(s.Items)
	return out
}

type ShipmentPatch struct {
	OrderID            Optional[int]          `json:"order_id"`
	SourceID           Optional[int]          `json:"source_id"`
	OrderDate          Optional[string]       `json:"order_date"`
	RequestDate        Optional[string]       `json:"request_date"`
	ShipmentDate       Optional[string]       `json:"shipment_date"`
	ShipmentType       Optional[string]       `json:"shipment_type"`
	ShipmentStatus     Optional[string]       `json:"shipment_status"`
	Notes              Optional[string]       `json:"notes"`
	CarrierCode        Optional[string]       `json:"carrier_code"`
	CarrierDescription Optional[string]       `json:"carrier_description"`
	ServiceCode        Optional[string]       `json:"service_code"`
	PaymentType        Optional[string]       `json:"payment_type"`
	TransferMode       Optional[string]       `json:"transfer_mode"`
	TotalPackageCount  Optional[int]          `json:"total_package_count"`
	TotalPackageWeight Optional[float64]      `json:"total_package_weight"`
	Items              Optional[[]ItemAmount] `json:"items"`
}

func (p ShipmentPatch) Apply(s *Shipment) {
	p.OrderID.ApplyTo(&s.OrderID)
	p.SourceID.ApplyTo(&s.SourceID)
	p.OrderDate.ApplyTo(&s.OrderDate)
	p.RequestDate.ApplyTo(&s.RequestDate)
	p.ShipmentDate.ApplyTo(&s.ShipmentDate)
	p.ShipmentType.ApplyTo(&s.ShipmentType)
	p.ShipmentStatus.ApplyTo(&s.ShipmentStatus)
	p.Notes.ApplyTo(&s.Notes)
	p.CarrierCode.ApplyTo(&s.CarrierCode)
	p.CarrierDescription.ApplyTo(&s.CarrierDescription)
	p.ServiceCode.ApplyTo(&s.ServiceCode)
	p.PaymentType.ApplyTo(&s.PaymentType)
	p.TransferMode.ApplyTo(&s.TransferMode)
	p.TotalPackageCount.ApplyTo(&s.TotalPackageCount)
	p.TotalPackageWeight.ApplyTo(&s.TotalPackageWeight)
	if p.Items.Set {
		s.Items = cloneItems(p.Items.Value)
	}
}

type ShipmentCriteria struct {
	OrderID        *int
	SourceID       *int
	ShipmentStatus string
	CarrierCode    string
}

func (c ShipmentCriteria) Empty() bool {
	return blank(c.ShipmentStatus, c.CarrierCode) && unset(c.OrderID, c.SourceID)
}

func (c ShipmentCriteria) Match(s Shipment) bool {
	return matchInt(s.OrderID, c.OrderID) &&
		matchInt(s.SourceID, c.SourceID) &&
		matchString(s.ShipmentStatus, c.ShipmentStatus) &&
		matchString(s.CarrierCode, c.CarrierCode)
}
