package domain

// Member references a user by email. UserID is a non-owning reference.
type Member struct {
	Email  string `json:"email"`
	UserID string `json:"user,omitempty"`
}

// Group is a named set of users sharing transaction visibility.
type Group struct {
	ID      string   `json:"-"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// HasMember reports whether email belongs to the group.
func (g *Group) HasMember(email string) bool {
	if g == nil {
		return false
	}
	for _, m := range g.Members {
		if m.Email == email {
			return true
		}
	}
	return false
}

// Emails returns the member emails in group order.
func (g *Group) Emails() []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, m.Email)
	}
	return out
}
