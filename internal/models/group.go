package models

// Group is a set of principals sharing expenses.
type Group struct {
	// ID is the sequential group identifier. The first group is 1; 0 is never a valid ID.
	ID uint64

	// Name is the display name of the group (e.g., "Roommates", "Weekend Trip").
	Name string

	// Description is free text and may be empty.
	Description string

	// Creator is the principal that created the group. It is always Members[0].
	Creator string

	// Members is the ordered, de-duplicated member list: creator first, then each
	// accepted candidate in the order given at creation.
	Members []string

	// Active is true for every group. Nothing deactivates a group yet.
	Active bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether principal is in the member list.
func (g *Group) HasMember(principal string) bool {
	if principal == "" {
		return false
	}
	for _, m := range g.Members {
		if m == principal {
			return true
		}
	}
	return false
}
