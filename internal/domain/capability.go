package domain

// Capability is a bit set resolved once per request from the caller's roles.
type Capability uint8

const (
	CanViewAllLocations Capability = 1 << iota
)

func (c Capability) Has(want Capability) bool { return c&want == want }

// Principal is the authenticated caller.
type Principal struct {
	UserID       string
	Roles        []string
	Capabilities Capability
}

func (p *Principal) CanViewAll() bool {
	return p != nil && p.Capabilities.Has(CanViewAllLocations)
}

// RequestContext carries everything an operation needs to know about the
// incoming request. Handlers build it; services never read ambient state.
type RequestContext struct {
	Principal *Principal
	SessionID string
	SourceIP  string
	RequestID string
}

func (rc RequestContext) Authenticated() bool {
	return rc.Principal != nil && rc.Principal.UserID != "" && rc.Principal.UserID != GuestUser
}
