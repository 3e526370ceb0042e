// Package navigation holds the dashboard's route table and the guard that
// decides, for a viewer, whether a path renders or redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

// Access is the requirement a route places on the viewer
type Access int

const (
	// Public routes render for anyone
	Public Access = iota
	// GuestOnly routes render for anonymous viewers and bounce signed-in ones
	GuestOnly
	// Authenticated routes require a session
	Authenticated
	// AdminOnly routes require a session with the admin role
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case GuestOnly:
		return "guest"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	}
	return "unknown"
}

// Paths used as redirect targets
const (
	LoginPath   = "/login"
	DefaultPath = "/chat"
)

// NotFound is the view rendered for unknown paths
const NotFound = "not-found"

// Route maps a path to a view
type Route struct {
	Path     string `json:"path"`
	View     string `json:"view,omitempty"`
	Access   Access `json:"-"`
	Redirect string `json:"redirect,omitempty"`
}

// Table is the declarative route table of the dashboard
var Table = []Route{
	{Path: "/", Redirect: DefaultPath},
	{Path: LoginPath, View: "login", Access: GuestOnly},
	{Path: "/chat", View: "chat", Access: Authenticated},
	{Path: "/persona", View: "persona", Access: Authenticated},
	{Path: "/emotion", View: "emotion", Access: Authenticated},
	{Path: "/report", View: "report", Access: Authenticated},
	{Path: "/settings", View: "settings", Access: Authenticated},
	{Path: "/admin", View: "admin", Access: AdminOnly},
}

// Viewer is who is asking for a route
type Viewer struct {
	Authenticated bool
	Role          valueobjects.Role
}

// Anonymous is a viewer without a session
var Anonymous = Viewer{}

// ViewerFor builds a viewer from a session identity
func ViewerFor(identity entities.Identity, ok bool) Viewer {
	if !ok {
		return Anonymous
	}
	return Viewer{Authenticated: true, Role: identity.Role}
}

// Decision is the outcome of resolving a path
type Decision struct {
	View     string `json:"view,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Status   int    `json:"status"`
}

// IsRedirect reports whether the viewer must be sent elsewhere
func (d Decision) IsRedirect() bool {
	return d.Redirect != ""
}

func render(view string) Decision {
	return Decision{View: view, Status: http.StatusOK}
}

func redirect(to string) Decision {
	return Decision{Redirect: to, Status: http.StatusFound}
}

// Lookup finds the route declared for path. A trailing slash is ignored.
func Lookup(path string) (Route, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range Table {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve applies the route guard. Violations redirect, they never error.
func Resolve(path string, v Viewer) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{View: NotFound, Status: http.StatusNotFound}
	}
	if route.Redirect != "" {
		return redirect(route.Redirect)
	}

	switch route.Access {
	case GuestOnly:
		if v.Authenticated {
			return redirect(DefaultPath)
		}
	case Authenticated:
		if !v.Authenticated {
			return redirect(LoginPath)
		}
	case AdminOnly:
		if !v.Authenticated {
			return redirect(LoginPath)
		}
		if v.Role != valueobjects.RoleAdmin {
			return redirect(DefaultPath)
		}
	}
	return render(route.View)
}
