package domain

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Skip  int
	Limit int
}

// Normalize clamps Limit into [1, MaxPageLimit] (zero means the default) and Skip to >= 0.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	switch {
	case p.Limit == 0:
		p.Limit = DefaultPageLimit
	case p.Limit < 1:
		p.Limit = 1
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	return p
}
