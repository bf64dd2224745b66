// Package navigation resolves front-end paths against the route table,
// applying sign-in and role gates.
package navigation

import (
	"net/url"
	"strings"

	"medistore/internal/domain"
)

// Access is the gate a route sits behind.
type Access int

const (
	Public Access = iota
	SignedIn
	RoleGated
)

type Route struct {
	Name    string
	Pattern string
	Access  Access
	Role    domain.Role
}

// Routes is the front-end route table. Patterns use ":name" for a single
// segment and a trailing "*" for the rest of the path.
var Routes = []Route{
	{Name: "home", Pattern: "/", Access: Public},
	{Name: "auth", Pattern: "/auth", Access: Public},
	{Name: "shop", Pattern: "/shop", Access: Public},
	{Name: "medicine", Pattern: "/shop/:id", Access: Public},
	{Name: "doctors", Pattern: "/doctors", Access: Public},
	{Name: "doctor", Pattern: "/doctors/:id", Access: Public},
	{Name: "lab-tests", Pattern: "/lab-tests", Access: Public},
	{Name: "scans", Pattern: "/scans", Access: Public},
	{Name: "health-packages", Pattern: "/health-packages", Access: Public},
	{Name: "cart", Pattern: "/cart", Access: SignedIn},
	{Name: "checkout", Pattern: "/checkout", Access: SignedIn},
	{Name: "profile", Pattern: "/profile", Access: SignedIn},
	{Name: "upload-prescription", Pattern: "/upload-prescription", Access: SignedIn},
	{Name: "book-appointment", Pattern: "/book-appointment/:doctorId", Access: SignedIn},
	{Name: "book-lab-test", Pattern: "/book-lab-test", Access: SignedIn},
	{Name: "dashboard", Pattern: "/dashboard", Access: RoleGated, Role: domain.RoleCustomer},
	{Name: "doctor-dashboard", Pattern: "/doctor/dashboard", Access: RoleGated, Role: domain.RoleDoctor},
	{Name: "wholesale-dashboard", Pattern: "/wholesale/dashboard", Access: RoleGated, Role: domain.RoleWholesale},
	{Name: "admin", Pattern: "/admin", Access: RoleGated, Role: domain.RoleAdmin},
	{Name: "admin", Pattern: "/admin/*", Access: RoleGated, Role: domain.RoleAdmin},
}

const (
	SignInPath   = "/auth"
	NotFoundName = "not-found"
)

type Page struct {
	Name   string              `json:"name"`
	Path   string              `json:"path"`
	Params map[string]string   `json:"params,omitempty"`
	Tab    domain.WholesaleTab `json:"tab,omitempty"`
}

// Result is either a page to render or a redirect target.
type Result struct {
	Page     *Page  `json:"page,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Resolve matches target (a path with optional query) for the given session.
// role is the caller's resolved role and is ignored when sess is not signed
// in. Unmatched paths resolve to the not-found page.
func Resolve(target string, sess *domain.Session, role domain.Role) Result {
	u, err := url.Parse(target)
	if err != nil {
		return Result{Page: &Page{Name: NotFoundName, Path: target}}
	}
	path := cleanPath(u.Path)

	for _, r := range Routes {
		params, ok := match(r.Pattern, path)
		if !ok {
			continue
		}
		if r.Access != Public && !sess.SignedIn() {
			return Result{Redirect: SignInPath + "?next=" + url.QueryEscape(path)}
		}
		if r.Access == RoleGated && r.Role != role {
			if !role.Valid() {
				role = domain.RoleCustomer
			}
			if dest := role.DashboardRoute(); dest != path {
				return Result{Redirect: dest}
			}
		}
		p := &Page{Name: r.Name, Path: path, Params: params}
		if r.Name == "wholesale-dashboard" {
			p.Tab = domain.ParseWholesaleTab(u.Query().Get("tab"))
		}
		return Result{Page: p}
	}
	return Result{Page: &Page{Name: NotFoundName, Path: path}}
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

func match(pattern, path string) (map[string]string, bool) {
	if pattern == path {
		return nil, true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	var params map[string]string
	for i, seg := range ps {
		if seg == "*" {
			return params, len(xs) > i
		}
		if i >= len(xs) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			if xs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[seg[1:]] = xs[i]
		case seg != xs[i]:
			return nil, false
		}
	}
	if len(xs) != len(ps) {
		return nil, false
	}
	return params, true
}
