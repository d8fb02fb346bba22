package auth

import (
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleWaiter   Role = "waiter"
	RoleChef     Role = "chef"
	RoleSousChef Role = "sous-chef"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleWaiter, RoleChef, RoleSousChef:
		return r, true
	}
	return "", false
}

// Rule grants a method on a path pattern. Method "*" matches any method.
// In Pattern, "*" matches one path segment and a trailing "**" matches the
// rest of the path, including nothing.
type Rule struct {
	Method  string
	Pattern string
}

// Policy is the role to permitted-resource table.
type Policy map[Role][]Rule

func rules(entries ...string) []Rule {
	out := make([]Rule, 0, len(entries))
	for _, s := range entries {
		method, pattern, _ := strings.Cut(s, " ")
		out = append(out, Rule{Method: method, Pattern: pattern})
	}
	return out
}

var kitchenRules = rules(
	"GET /api/v1/menu/**",
	"* /api/v1/orders/**",
	"* /api/v1/ingredients/**",
	"GET /api/v1/ws",
)

var DefaultPolicy = Policy{
	RoleAdmin: rules("* /**"),
	RoleWaiter: rules(
		"GET /api/v1/menu/**",
		"* /api/v1/cart/**",
		"POST /api/v1/orders",
		"GET /api/v1/orders/**",
		"PUT /api/v1/orders/*/status",
		"GET /api/v1/ws",
	),
	RoleChef:     append(rules("* /api/v1/recipes/**"), kitchenRules...),
	RoleSousChef: append(rules("GET /api/v1/recipes/**"), kitchenRules...),
}

// Authorize is the single access check for every boundary operation.
func (p Policy) Authorize(role Role, method, path string) bool {
	for _, r := range p[role] {
		if (r.Method == "*" || strings.EqualFold(r.Method, method)) && matchPath(r.Pattern, path) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	ps := split(pattern)
	xs := split(path)
	for i, seg := range ps {
		if seg == "**" {
			return true
		}
		if i >= len(xs) {
			return false
		}
		if seg != "*" && seg != xs[i] {
			return false
		}
	}
	return len(ps) == len(xs)
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
