package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProject_HasMember(t *testing.T) {
	project := Project{ID: "p1", OwnerID: "owner", MemberIDs: []UserID{"m1", "m2"}}

	tests := []struct {
		name string
		uid  UserID
		want bool
	}{
		{"owner", "owner", true},
		{"member", "m2", true},
		{"stranger", "x", false},
		{"empty id", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, project.HasMember(tt.uid))
		})
	}
}
