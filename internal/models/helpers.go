package models

// NewNullString returns a pointer to s, or nil when s is empty. Optional
// string columns stay NULL in the database when not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
