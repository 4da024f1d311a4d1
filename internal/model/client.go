package model

type Client struct {
	ID           int    `json:"id"`
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Timestamps
}

func (c *Client) RecordKey() int { return c.ID }
func (c *Client) AssignKey(id int) { c.ID = id }
func (c *Client) Clone() Client { return *c }

type ClientPatch struct {
	Name         Optional[string] `json:"name"`
	Address      Optional[string] `json:"address"`
	City         Optional[string] `json:"city"`
	ZipCode      Optional[string] `json:"zip_code"`
	Province     Optional[string] `json:"province"`
	Country      Optional[string] `json:"country"`
	ContactName  Optional[string] `json:"contact_name"`
	ContactPhone Optional[string] `json:"contact_phone"`
	ContactEmail Optional[string] `json:"contact_email"`
}

func (p ClientPatch) Apply(c *Client) {
	p.Name.ApplyTo(&c.Name)
	p.Address.ApplyTo(&c.Address)
	p.City.ApplyTo(&c.City)
	p.ZipCode.ApplyTo(&c.ZipCode)
	p.Province.ApplyTo(&c.Province)
	p.Country.ApplyTo(&c.Country)
	p.ContactName.ApplyTo(&c.ContactName)
	p.ContactPhone.ApplyTo(&c.ContactPhone)
	p.ContactEmail.ApplyTo(&c.ContactEmail)
}

type ClientCriteria struct {
	Name         string
	City         string
	Country      string
	ContactEmail string
}

func (c ClientCriteria) Empty() bool {
	return blank(c.Name, c.City, c.Country, c.ContactEmail)
}

func (c ClientCriteria) Match(v Client) bool {
	return matchString(v.Name, c.Name) &&
		matchString(v.City, c.City) &&
		matchString(v.Country, c.Country) &&
		matchString(v.ContactEmail, c.ContactEmail)
}
