package model

type Supplier struct {
	ID           int    `json:"id"`
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address"`
	AddressExtra string `json:"address_extra"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	ContactName  string `json:"contact_name"`
	PhoneNumber  string `json:"phonenumber"`
	Reference    string `json:"reference"`
	Timestamps
}

func (s *Supplier) RecordKey() int { return s.ID }
func (s *Supplier) AssignKey(id int) { s.ID = id }
func (s *Supplier) Clone() Supplier { return *s }

type SupplierPatch struct {
	Code         Optional[string] `json:"code"`
	Name         Optional[string] `json:"name"`
	Address      Optional[string] `json:"address"`
	AddressExtra Optional[string] `json:"address_extra"`
	City         Optional[string] `json:"city"`
	ZipCode      Optional[string] `json:"zip_code"`
	Province     Optional[string] `json:"province"`
	Country      Optional[string] `json:"country"`
	ContactName  Optional[string] `json:"contact_name"`
	PhoneNumber  Optional[string] `json:"phonenumber"`
	Reference    Optional[string] `json:"reference"`
}

func (p SupplierPatch) Apply(s *Supplier) {
	p.Code.ApplyTo(&s.Code)
	p.Name.ApplyTo(&s.Name)
	p.Address.ApplyTo(&s.Address)
	p.AddressExtra.ApplyTo(&s.AddressExtra)
	p.City.ApplyTo(&s.City)
	p.ZipCode.ApplyTo(&s.ZipCode)
	p.Province.ApplyTo(&s.Province)
	p.Country.ApplyTo(&s.Country)
	p.ContactName.ApplyTo(&s.ContactName)
	p.PhoneNumber.ApplyTo(&s.PhoneNumber)
	p.Reference.ApplyTo(&s.Reference)
}

type SupplierCriteria struct {
	Code      string
	Name      string
	City      string
	Country   string
	Reference string
}

func (c SupplierCriteria) Empty() bool {
	return blank(c.Code, c.Name, c.City, c.Country, c.Reference)
}

func (c SupplierCriteria) Match(s Supplier) bool {
	return matchString(s.Code, c.Code) &&
		matchString(s.Name, c.Name) &&
		matchString(s.City, c.City) &&
		matchString(s.Country, c.Country) &&
		matchString(s.Reference, c.Reference)
}
