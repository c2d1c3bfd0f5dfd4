// Package ops implements the user-facing operations of the dashboard client.
// Each operation takes an Env of shared collaborators and a typed input, and
// returns a typed output. Reads go through the cache coordinator keyed by
// (resource, mode); mutations apply their invalidation rules synchronously on
// success, so the very next fetch for an affected resource is fresh.
package ops

import (
	"strings"

	"github.com/hpungsan/rankwatch/internal/api"
	"github.com/hpungsan/rankwatch/internal/cache"
	"github.com/hpungsan/rankwatch/internal/config"
	"github.com/hpungsan/rankwatch/internal/session"
)

// Logical cache resources.
const (
	ResourceKeywords            = "keywords"
	ResourceKeywordDetailPrefix = "keyword:"
)

// Env bundles the collaborators every operation needs.
type Env struct {
	Session *session.Session
	Client  *api.Client
	Cache   *cache.Coordinator
	Config  *config.Config
}

// detailResource returns the cache resource for one keyword's detail view.
func detailResource(id string) string {
	return ResourceKeywordDetailPrefix + id
}

// cacheKey scopes a resource by the session's current mode.
func cacheKey(env *Env, resource string) cache.Key {
	return cache.Key{
		Resource: resource,
		Mode:     string(env.Session.Snapshot().Mode),
	}
}

// isGuest reports whether the session currently routes to guest endpoints.
func isGuest(env *Env) bool {
	return env.Session.Snapshot().Mode == session.ModeGuest
}

// parseCommaSeparated splits a comma-separated string, trimming whitespace
// and dropping empties.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// optional returns nil for an empty string, so empty form fields are omitted
// from request payloads.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
