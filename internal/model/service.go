// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Service plan types.
const (
	ServiceBasic     = "basic"
	ServiceStandard  = "standard"
	ServiceAdvanced  = "advanced"
	ServiceEcommerce = "ecommerce"
)

// Service is a catalog offering. Price is a display string ("$10"), not a
// numeric amount; there is no real payment processing behind it.
type Service struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	Price        string   `json:"price"`
	DeliveryTime string   `json:"deliveryTime"`
	Type         string   `json:"type"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Testimonial is a client quote shown on the home page. Read-only: no mutator
// is exposed for testimonials.
type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}
