package model

type Transfer struct {
	ID             int          `json:"id"`
	Reference      string       `json:"reference"`
	TransferFrom   int          `json:"transfer_from"`
	TransferTo     int          `json:"transfer_to" validate:"gt=0"`
	TransferStatus string       `json:"transfer_status"`
	Items          []ItemAmount `json:"items" validate:"dive"`
	Timestamps
}

func (t *Transfer) RecordKey() int { return t.ID }
func (t *Transfer) AssignKey(id int) { t.ID = id }

func (t *Transfer) Clone() Transfer {
	out := *t
	out.Items = cloneItems(t.Items)
	return out
}

type TransferPatch struct {
	Reference      Optional[string]       `json:"reference"`
	TransferFrom   Optional[int]          `json:"transfer_from"`
	TransferTo     Optional[int]          `json:"transfer_to"`
	TransferStatus Optional[string]       `json:"transfer_status"`
	Items          Optional[[]ItemAmount] `json:"items"`
}

func (p TransferPatch) Apply(t *Transfer) {
	p.Reference.ApplyTo(&t.Reference)
	p.TransferFrom.ApplyTo(&t.TransferFrom)
	p.TransferTo.ApplyTo(&t.TransferTo)
	p.TransferStatus.ApplyTo(&t.TransferStatus)
	if p.Items.Set {
		t.Items = cloneItems(p.Items.Value)
	}
}

type TransferCriteria struct {
	Reference      string
	TransferFrom   *int
	TransferTo     *int
	TransferStatus string
}

func (c TransferCriteria) Empty() bool {
	return blank(c.Reference, c.TransferStatus) && unset(c.TransferFrom, c.TransferTo)
}

func (c TransferCriteria) Match(t Transfer) bool {
	return matchString(t.Reference, c.Reference) &&
		matchInt(t.TransferFrom, c.TransferFrom) &&
		matchInt(t.TransferTo, c.TransferTo) &&
		matchString(t.TransferStatus, c.TransferStatus)
}
