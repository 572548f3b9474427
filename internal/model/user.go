// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records persisted by the storage layer:
// users, services, orders, messages and the site content documents.
package model

import "encoding/json"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the session-visible projection of a registered account.
// It never carries the password.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserWithSecret is a roster entry. The password is stored and compared in
// plaintext: the roster is a non-authoritative client-side demo database, not
// a real credential store. Do not reuse this type outside the roster.
type UserWithSecret struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// UnmarshalJSON treats an absent "active" field as active. Roster documents
// written before deactivation existed carry no active flag at all, and those
// accounts must keep working.
func (u *UserWithSecret) UnmarshalJSON(b []byte) error {
	type alias UserWithSecret
	aux := alias{Active: true}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = UserWithSecret(aux)
	return nil
}

// UnmarshalJSON treats an absent "active" field as active, mirroring
// UserWithSecret.
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := alias{Active: true}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux)
	return nil
}

// Strip returns the password-free projection handed to the rest of the app.
func (u UserWithSecret) Strip() User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
