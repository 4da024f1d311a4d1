package model

type Location struct {
	ID          int    `json:"id"`
	WarehouseID int    `json:"warehouse_id" validate:"gt=0"`
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name"`
	Timestamps
}

func (l *Location) RecordKey() int { return l.ID }
func (l *Location) AssignKey(id int) { l.ID = id }
func (l *Location) Clone() Location { return *l }

type LocationPatch struct {
	WarehouseID Optional[int]    `json:"warehouse_id"`
	Code        Optional[string] `json:"code"`
	Name        Optional[string] `json:"name"`
}

func (p LocationPatch) Apply(l *Location) {
	p.WarehouseID.ApplyTo(&l.WarehouseID)
	p.Code.ApplyTo(&l.Code)
	p.Name.ApplyTo(&l.Name)
}

type LocationCriteria struct {
	WarehouseID *int
	Code        string
	Name        string
}

func (c LocationCriteria) Empty() bool {
	return unset(c.WarehouseID) && blank(c.Code, c.Name)
}

func (c LocationCriteria) Match(l Location) bool {
	return matchInt(l.WarehouseID, c.WarehouseID) &&
		matchString(l.Code, c.Code) &&
		matchString(l.Name, c.Name)
}
