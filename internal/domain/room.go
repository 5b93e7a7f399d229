package domain

import "slices"

// RoomID identifies a project room. It is the project id.
type RoomID string

// Project is the membership view of a project owned by the CRUD layer.
type Project struct {
	ID        RoomID   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   UserID   `json:"ownerId"`
	MemberIDs []UserID `json:"memberIds"`
}

// HasMember reports whether uid owns the project or is one of its members.
func (p Project) HasMember(uid UserID) bool {
	if uid == "" {
		return false
	}
	return p.OwnerID == uid || slices.Contains(p.MemberIDs, uid)
}
