package model

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type Warehouse struct {
	ID       int     `json:"id"`
	Code     string  `json:"code" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Address  string  `json:"address"`
	Zip      string  `json:"zip"`
	City     string  `json:"city"`
	Province string  `json:"province"`
	Country  string  `json:"country"`
	Contact  Contact `json:"contact"`
	Timestamps
}

func (w *Warehouse) RecordKey() int { return w.ID }
func (w *Warehouse) AssignKey(id int) { w.ID = id }
func (w *Warehouse) Clone() Warehouse { return *w }

type WarehousePatch struct {
	Code     Optional[string]  `json:"code"`
	Name     Optional[string]  `json:"name"`
	Address  Optional[string]  `json:"address"`
	Zip      Optional[string]  `json:"zip"`
	City     Optional[string]  `json:"city"`
	Province Optional[string]  `json:"province"`
	Country  Optional[string]  `json:"country"`
	Contact  Optional[Contact] `json:"contact"`
}

func (p WarehousePatch) Apply(w *Warehouse) {
	p.Code.ApplyTo(&w.Code)
	p.Name.ApplyTo(&w.Name)
	p.Address.ApplyTo(&w.Address)
	p.Zip.ApplyTo(&w.Zip)
	p.City.ApplyTo(&w.City)
	p.Province.ApplyTo(&w.Province)
	p.Country.ApplyTo(&w.Country)
	p.Contact.ApplyTo(&w.Contact)
}

type WarehouseCriteria struct {
	Code    string
	Name    string
	City    string
	Country string
}

func (c WarehouseCriteria) Empty() bool {
	return blank(c.Code, c.Name, c.City, c.Country)
}

func (c WarehouseCriteria) Match(w Warehouse) bool {
	return matchString(w.Code, c.Code) &&
		matchString(w.Name, c.Name) &&
		matchString(w.City, c.City) &&
		matchString(w.Country, c.Country)
}
