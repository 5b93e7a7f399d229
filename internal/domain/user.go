// Package domain contains entities without transport or storage logic, just meta-data
package domain

import "strings"

type UserID string

// User is the directory view of an account. The gateway only reads it.
type User struct {
	ID     UserID `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Active bool   `json:"active"`
}

// DisplayName falls back to the id for accounts without a name.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return string(u.ID)
}
