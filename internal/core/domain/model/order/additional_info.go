package order

// Length limits of the free-text fields, in characters.
const (
	MaxNotesLength        = 1000
	MaxRequirementsLength = 500
)

// AdditionalInfo is free text attached to the order.
type AdditionalInfo struct {
	Notes              string `json:"orderNotes,omitempty" validate:"max=1000"`
	ClientRequirements string `json:"clientRequirements,omitempty" validate:"max=500"`
}
