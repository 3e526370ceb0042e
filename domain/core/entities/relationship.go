package entities

import "time"

// Relationship links two ids. Either end may be a character id or the
// session user id; neither end is checked for existence.
type Relationship struct {
	ID          string    `json:"id" yaml:"id"`
	FromID      string    `json:"fromId" yaml:"fromId"`
	ToID        string    `json:"toId" yaml:"toId"`
	Type        string    `json:"type" yaml:"type"`
	Strength    int       `json:"strength" yaml:"strength"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// Touches reports whether either end of the relationship is id
func (r Relationship) Touches(id string) bool {
	return r.FromID == id || r.ToID == id
}

// RelationshipDraft carries the fields of a new relationship
type RelationshipDraft struct {
	FromID      string `json:"fromId" validate:"required"`
	ToID        string `json:"toId" validate:"required"`
	Type        string `json:"type" validate:"required,max=50"`
	Strength    int    `json:"strength" validate:"min=1,max=10"`
	Description string `json:"description" validate:"max=2000"`
}

// Build turns the draft into a record
func (d RelationshipDraft) Build(id string, now time.Time) Relationship {
	return Relationship{
		ID:          id,
		FromID:      d.FromID,
		ToID:        d.ToID,
		Type:        d.Type,
		Strength:    d.Strength,
		Description: d.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RelationshipPatch lists the fields to overwrite; nil fields are kept
type RelationshipPatch struct {
	FromID      *string `json:"fromId,omitempty" validate:"omitempty,min=1"`
	ToID        *string `json:"toId,omitempty" validate:"omitempty,min=1"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=50"`
	Strength    *int    `json:"strength,omitempty" validate:"omitempty,min=1,max=10"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ApplyTo merges the patch over r
func (p RelationshipPatch) ApplyTo(r *Relationship) {
	setString(&r.FromID, p.FromID)
	setString(&r.ToID, p.ToID)
	setString(&r.Type, p.Type)
	if p.Strength != nil {
		r.Strength = *p.Strength
	}
	setString(&r.Description, p.Description)
}
