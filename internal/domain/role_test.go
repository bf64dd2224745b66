package domain

import "testing"

func TestRoleDashboardRoute(t *testing.T) {
	cases := map[Role]string{
		RoleCustomer:  "/dashboard",
		RoleDoctor:    "/doctor/dashboard",
		RoleWholesale: "/wholesale/dashboard",
		RoleAdmin:     "/admin",
		Role("bogus"): "/dashboard",
	}
	for role, want := range cases {
		if got := role.DashboardRoute(); got != want {
			t.Fatalf("role %q: expected %s, got %s", role, want, got)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, err := ParseRole(" " + string(r) + " ")
		if err != nil {
			t.Fatalf("parse %q: %v", r, err)
		}
		if got != r {
			t.Fatalf("expected %q, got %q", r, got)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
	if got, _ := ParseRole("ADMIN"); got != RoleAdmin {
		t.Fatalf("expected case-insensitive parse, got %q", got)
	}
}

func TestParseWholesaleTab(t *testing.T) {
	if ParseWholesaleTab("quotes") != TabQuotes {
		t.Fatalf("expected quotes tab")
	}
	if ParseWholesaleTab("") != TabDashboard || ParseWholesaleTab("orders") != TabDashboard {
		t.Fatalf("expected dashboard fallback")
	}
}
