package auth

import (
	"net/http"
	"strings"
)

// Policy determines which roles may open a request path.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// AllowedRoles resolves the roles allowed on the request path.
// ok is false when the path is not protected.
func (p Policy) AllowedRoles(r *http.Request) ([]Role, bool) {
	if r == nil {
		return nil, false
	}
	path := r.URL.Path
	switch {
	case path == "/resident_dashboard" || strings.HasPrefix(path, "/resident_dashboard/"):
		return []Role{RoleResident}, true
	case path == "/dashboard" || strings.HasPrefix(path, "/dashboard/"):
		return []Role{RoleManagementBoard, RoleAccountant, RolePoliceLiaison}, true
	case strings.HasPrefix(path, "/api/"):
		return AllRoles(), true
	}
	return nil, false
}

func roleIn(role Role, allowed []Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
