package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{input: "wanner", want: RoleWanner},
		{input: "moderator", want: RoleModerator},
		{input: "admin", want: RoleAdmin},
		{input: "superuser", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleWanner))
	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleModerator.AtLeast(RoleWanner))
	assert.True(t, RoleWanner.AtLeast(RoleWanner))

	assert.False(t, RoleWanner.AtLeast(RoleModerator))
	assert.False(t, RoleWanner.AtLeast(RoleAdmin))
	assert.False(t, RoleModerator.AtLeast(RoleAdmin))

	// Unknown roles rank below every real role.
	assert.False(t, Role("ghost").AtLeast(RoleWanner))
}
