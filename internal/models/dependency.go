package models

// ForeignKey is accepted in schema input so it can be rejected explicitly;
// no DDL is generated for it.
type ForeignKey struct {
	Column     string `json:"column"`
	References string `json:"references"`
	OnDelete   string `json:"onDelete,omitempty"`
	OnUpdate   string `json:"onUpdate,omitempty"`
}
