package model

type Item struct {
	UID                  string `json:"uid"`
	Code                 string `json:"code" validate:"required"`
	Description          string `json:"description"`
	ShortDescription     string `json:"short_description"`
	UPCCode              string `json:"upc_code"`
	ModelNumber          string `json:"model_number"`
	CommodityCode        string `json:"commodity_code"`
	ItemLine             int    `json:"item_line"`
	ItemGroup            int    `json:"item_group"`
	ItemType             int    `json:"item_type"`
	UnitPurchaseQuantity int    `json:"unit_purchase_quantity" validate:"gte=0"`
	UnitOrderQuantity    int    `json:"unit_order_quantity" validate:"gte=0"`
	PackOrderQuantity    int    `json:"pack_order_quantity" validate:"gte=0"`
	SupplierID           int    `json:"supplier_id"`
	SupplierCode         string `json:"supplier_code"`
	SupplierPartNumber   string `json:"supplier_part_number"`
	Timestamps
}

func (i *Item) RecordKey() string { return i.UID }
func (i *Item) AssignKey(uid string) { i.UID = uid }
func (i *Item) Clone() Item { return *i }

type ItemPatch struct {
	Code                 Optional[string] `json:"code"`
	Description          Optional[string] `json:"description"`
	ShortDescription     Optional[string] `json:"short_description"`
	UPCCode              Optional[string] `json:"upc_code"`
	ModelNumber          Optional[string] `json:"model_number"`
	CommodityCode        Optional[string] `json:"commodity_code"`
	ItemLine             Optional[int]    `json:"item_line"`
	ItemGroup            Optional[int]    `json:"item_group"`
	ItemType             Optional[int]    `json:"item_type"`
	UnitPurchaseQuantity Optional[int]    `json:"unit_purchase_quantity"`
	UnitOrderQuantity    Optional[int]    `json:"unit_order_quantity"`
	PackOrderQuantity    Optional[int]    `json:"pack_order_quantity"`
	SupplierID           Optional[int]    `json:"supplier_id"`
	SupplierCode         Optional[string] `json:"supplier_code"`
	SupplierPartNumber   Optional[string] `json:"supplier_part_number"`
}

func (p ItemPatch) Apply(i *Item) {
	p.Code.ApplyTo(&i.Code)
	p.Description.ApplyTo(&i.Description)
	p.ShortDescription.ApplyTo(&i.ShortDescription)
	p.UPCCode.ApplyTo(&i.UPCCode)
	p.ModelNumber.ApplyTo(&i.ModelNumber)
	p.CommodityCode.ApplyTo(&i.CommodityCode)
	p.ItemLine.ApplyTo(&i.ItemLine)
	p.ItemGroup.ApplyTo(&i.ItemGroup)
	p.ItemType.ApplyTo(&i.ItemType)
	p.UnitPurchaseQuantity.ApplyTo(&i.UnitPurchaseQuantity)
	p.UnitOrderQuantity.ApplyTo(&i.UnitOrderQuantity)
	p.PackOrderQuantity.ApplyTo(&i.PackOrderQuantity)
	p.SupplierID.ApplyTo(&i.SupplierID)
	p.SupplierCode.ApplyTo(&i.SupplierCode)
	p.SupplierPartNumber.ApplyTo(&i.SupplierPartNumber)
}

type ItemCriteria struct {
	Code               string
	Description        string
	UPCCode            string
	ModelNumber        string
	CommodityCode      string
	SupplierID         *int
	SupplierCode       string
	SupplierPartNumber string
	ItemLine           *int
	ItemGroup          *int
	ItemType           *int
}

func (c ItemCriteria) Empty() bool {
	return blank(c.Code, c.Description, c.UPCCode, c.ModelNumber, c.CommodityCode, c.SupplierCode, c.SupplierPartNumber) &&
		unset(c.SupplierID, c.ItemLine, c.ItemGroup, c.ItemType)
}

func (c ItemCriteria) Match(i Item) bool {
	return matchString(i.Code, c.Code) &&
		matchString(i.Description, c.Description) &&
		matchString(i.UPCCode, c.UPCCode) &&
		matchString(i.ModelNumber, c.ModelNumber) &&
		matchString(i.CommodityCode, c.CommodityCode) &&
		matchInt(i.SupplierID, c.SupplierID) &&
		matchString(i.SupplierCode, c.SupplierCode) &&
		matchString(i.SupplierPartNumber, c.SupplierPartNumber) &&
		matchInt(i.ItemLine, c.ItemLine) &&
		matchInt(i.ItemGroup, c.ItemGroup) &&
		matchInt(i.ItemType, c.ItemType)
}
