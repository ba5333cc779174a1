package permissions_test

import (
	"littlelemon/permissions"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name    string
		pattern string
		method  string
		skip    bool
		roles   []string
	}{
		{name: "landing page", pattern: "/api//", method: http.MethodGet, skip: true},
		{name: "token endpoint", pattern: "/api/api-token-auth/", method: http.MethodPost, skip: true},
		{name: "registration", pattern: "/auth/users//", method: http.MethodPost, skip: true},
		{name: "swagger", pattern: "/swagger/*", method: http.MethodGet, skip: true},
		{name: "menu requires token", pattern: "/api/menu//", method: http.MethodGet},
		{name: "me requires token", pattern: "/auth/users/me/", method: http.MethodGet},
		{name: "user detail", pattern: "/auth/users/{id}/", method: http.MethodGet, roles: []string{"admin", "user"}},
		{name: "admin users", pattern: "/admin/users//", method: http.MethodGet, roles: []string{"admin"}},
		{name: "admin groups create", pattern: "/admin/groups/", method: http.MethodPost, roles: []string{"admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.pattern, tt.method)

			assert.Equal(t, tt.skip, permission.Skip)
			assert.Equal(t, tt.roles, permission.Permissions)
		})
	}
}

func TestFindPermissions_MethodMismatch(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/api/api-token-auth/", http.MethodGet))
	assert.Equal(t, permissions.Permission{}, data.FindPermissions("", http.MethodGet))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/api/menu/{id}", permissions.Normalize("/api/menu/{id}/"))
	assert.Equal(t, "/api", permissions.Normalize("/api//"))
	assert.Equal(t, "/", permissions.Normalize("/"))
	assert.Empty(t, permissions.Normalize(""))
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte("{"))
	assert.Error(t, err)

	data, err := permissions.Parse([]byte(`{"skip": true}`))
	require.NoError(t, err)
	assert.True(t, data.Skip)
}
