package permissions

import (
	_ "embed"
	"encoding/json"
	"path"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission declares who may call one route. Paths are chi route patterns.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions looks up the entry for a route pattern. Mounted sub-routers may report
// patterns with doubled or trailing slashes, so both sides are compared in cleaned form.
func (r *PermissionData) FindPermissions(pattern, method string) Permission {
	pattern = Normalize(pattern)

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return Normalize(rp.Path) == pattern && rp.Method == method
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Normalize cleans a route pattern: "/api/menu//" and "/api/menu/" both become "/api/menu".
func Normalize(pattern string) string {
	if pattern == "" {
		return ""
	}

	return path.Clean(pattern)
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &permissions, nil
}
