package model

// Classification is the shared shape of item lines, item groups and item types.
type Classification struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Timestamps
}

func (c *Classification) RecordKey() int { return c.ID }
func (c *Classification) AssignKey(id int) { c.ID = id }
func (c *Classification) Clone() Classification { return *c }

type ClassificationPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (p ClassificationPatch) Apply(c *Classification) {
	p.Name.ApplyTo(&c.Name)
	p.Description.ApplyTo(&c.Description)
}

type ClassificationCriteria struct {
	Name        string
	Description string
}

func (c ClassificationCriteria) Empty() bool {
	return blank(c.Name, c.Description)
}

func (c ClassificationCriteria) Match(v Classification) bool {
	return matchString(v.Name, c.Name) && matchString(v.Description, c.Description)
}
