package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleEditor))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleEditor.AtLeast(RoleViewer))
	assert.False(t, RoleViewer.AtLeast(RoleEditor))
	assert.False(t, RoleEditor.AtLeast(RoleAdmin))
}

func TestParseRole(t *testing.T) {
	for name, want := range map[string]Role{
		"viewer": RoleViewer,
		"editor": RoleEditor,
		"admin":  RoleAdmin,
	} {
		got, err := ParseRole(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
}

func TestRoleScanDegradesUnknownToViewer(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan("editor"))
	assert.Equal(t, RoleEditor, r)

	require.NoError(t, r.Scan("no-such-role"))
	assert.Equal(t, RoleViewer, r)

	require.NoError(t, r.Scan(nil))
	assert.Equal(t, RoleViewer, r)
}
