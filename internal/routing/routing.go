// Package routing picks the landing surface for an authenticated (or
// anonymous) entry to the application root.
package routing

import "kyckaro/pkg/domain"

// Landing is the closed set of post-entry destinations. One decision function
// replaces per-role page duplication: clients switch on the value.
type Landing string

const (
	// LandingLogin is the unauthenticated entry surface.
	LandingLogin Landing = "login"
	// LandingAdminDashboard is the full-detail submission review list.
	LandingAdminDashboard Landing = "admin_dashboard"
	// LandingSelfDashboard is the end user's own-submission list and
	// start-new-verification surface.
	LandingSelfDashboard Landing = "self_dashboard"
)

// Decide maps the session state to a landing. Pure and idempotent: no session
// means login, an admin lands on the review list, everyone else (including
// identities with no role row) lands on their own dashboard.
func Decide(actor *domain.Actor) Landing {
	switch {
	case actor == nil:
		return LandingLogin
	case actor.IsAdmin():
		return LandingAdminDashboard
	default:
		return LandingSelfDashboard
	}
}
