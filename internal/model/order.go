// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Order statuses.
const (
	OrderPending    = "pending"
	OrderInProgress = "in-progress"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a placed service order. ServiceType is the denormalized service
// title at order time, not a foreign key. ID and CreatedAt are assigned by the
// content store, never by the caller; CreatedAt is an ISO-8601 timestamp.
type Order struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	UserName     string `json:"userName"`
	UserEmail    string `json:"userEmail"`
	ServiceType  string `json:"serviceType"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	Details      string `json:"details"`
	BusinessType string `json:"businessType,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Price        string `json:"price,omitempty"`
}

// Message is a contact-form submission. IsRead starts false and only flips to
// true through MarkMessageAsRead; it never reverts.
type Message struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
	IsRead    bool   `json:"isRead"`
}
