// Package tenancy maps inbound request hosts and paths to tenant slugs.
package tenancy

import (
	"net/url"
	"strings"
)

// ResolutionType classifies what a host/path resolved to.
type ResolutionType string

const (
	// ResolutionTenant means a tenant slug was found.
	ResolutionTenant ResolutionType = "tenant"
	// ResolutionReserved means the subdomain is an operational name
	// (www, panel, admin, ...), never a tenant.
	ResolutionReserved ResolutionType = "reserved"
	// ResolutionRoot means nothing matched; the request targets the
	// root/marketing site.
	ResolutionRoot ResolutionType = "root"
)

// Resolution is the outcome of resolving a request to a tenant.
type Resolution struct {
	Type ResolutionType
	Slug string // tenant slug, or the reserved name for ResolutionReserved
}

// reservedSubdomains are operational hostnames that never map to a tenant.
var reservedSubdomains = map[string]struct{}{
	"www":    {},
	"panel":  {},
	"admin":  {},
	"api":    {},
	"app":    {},
	"mail":   {},
	"static": {},
	"assets": {},
	"docs":   {},
	"status": {},
}

// pathPrefixes are URL prefixes whose next segment is a tenant slug, tried in
// order.
var pathPrefixes = []string{"/s/", "/tenant/", "/customer/menu/"}

// Resolver resolves tenant slugs for a fixed root domain.
type Resolver struct {
	rootDomain string
}

// NewResolver creates a Resolver for the given root domain, e.g. "tably.app".
func NewResolver(rootDomain string) *Resolver {
	return &Resolver{rootDomain: strings.ToLower(strings.TrimSpace(rootDomain))}
}

// Resolve determines the tenant slug for a request. Precedence is fixed:
// subdomain > path prefix > query parameter. The function is pure and
// side-effect-free; callers look the slug up themselves.
func (r *Resolver) Resolve(host, path, rawQuery string) Resolution {
	if sub, ok := r.subdomain(host); ok {
		if _, reserved := reservedSubdomains[sub]; reserved {
			return Resolution{Type: ResolutionReserved, Slug: sub}
		}
		return Resolution{Type: ResolutionTenant, Slug: sub}
	}

	if slug, ok := slugFromPath(path); ok {
		return Resolution{Type: ResolutionTenant, Slug: slug}
	}

	if slug, ok := slugFromQuery(rawQuery); ok {
		return Resolution{Type: ResolutionTenant, Slug: slug}
	}

	return Resolution{Type: ResolutionRoot}
}

// subdomain extracts the label in front of the root domain, stripping any
// port. Only single-label subdomains are considered; deeper nesting is not.
func (r *Resolver) subdomain(host string) (string, bool) {
	host = strings.ToLower(host)
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}

	if r.rootDomain == "" || host == r.rootDomain {
		return "", false
	}

	suffix := "." + r.rootDomain
	if !strings.HasSuffix(host, suffix) {
		return "", false
	}

	sub := strings.TrimSuffix(host, suffix)
	if sub == "" || strings.Contains(sub, ".") {
		return "", false
	}
	return sub, true
}

func slugFromPath(path string) (string, bool) {
	for _, prefix := range pathPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		slug := rest
		if i := strings.Index(rest, "/"); i >= 0 {
			slug = rest[:i]
		}
		if slug != "" {
			return strings.ToLower(slug), true
		}
	}
	return "", false
}

func slugFromQuery(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return "", false
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", false
	}
	slug := strings.TrimSpace(values.Get("tenant"))
	if slug == "" {
		return "", false
	}
	return strings.ToLower(slug), true
}
