package services

import "drive-me-local/internal/domain/user"

type Capability uint8

const (
	CapAuthenticated Capability = iota + 1
	CapAdmin
)

const (
	NoticeLoginRequired = "please log in"
	NoticeAdminRequired = "access denied: administrator role required"
)

// Decision tells the transport what to do with a request. A denial is a
// redirect with a notice, never an error page.
type Decision struct {
	Allowed  bool
	Reason   error
	Redirect string
	Notice   string
}

type Gate struct {
	loginPath   string
	landingPath string
}

func NewGate(loginPath, landingPath string) *Gate {
	return &Gate{loginPath: loginPath, landingPath: landingPath}
}

func (g *Gate) Require(needed Capability, identity *user.User) Decision {
	if identity == nil {
		return Decision{
			Reason:   ErrUnauthenticated,
			Redirect: g.loginPath,
			Notice:   NoticeLoginRequired,
		}
	}

	if needed == CapAdmin && !identity.IsAdmin() {
		return Decision{
			Reason:   ErrForbidden,
			Redirect: g.landingPath,
			Notice:   NoticeAdminRequired,
		}
	}

	return Decision{Allowed: true}
}
