// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// CustomSection is a free-form page section editable from the admin panel.
// Type selects the rendering mode ("text", "markdown" or "html").
type CustomSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Image   string `json:"image,omitempty"`
	Order   int    `json:"order"`
}

// SiteContent is the loosely-typed copy bag for the public pages. Any field
// may be empty; templates supply literal defaults for absent values.
type SiteContent struct {
	HeroTitle    string `json:"heroTitle,omitempty"`
	HeroSubtitle string `json:"heroSubtitle,omitempty"`
	HeroImage    string `json:"heroImage,omitempty"`
	AboutContent string `json:"aboutContent,omitempty"`

	PricingTitle       string `json:"pricingTitle,omitempty"`
	PricingSubtitle    string `json:"pricingSubtitle,omitempty"`
	PricingDescription string `json:"pricingDescription,omitempty"`

	ContactTitle    string `json:"contactTitle,omitempty"`
	ContactSubtitle string `json:"contactSubtitle,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	ContactAddress  string `json:"contactAddress,omitempty"`

	CustomSections []CustomSection `json:"customSections,omitempty"`
}

// TeamMember is an entry in the about page team list.
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Bio   string `json:"bio"`
	Image string `json:"image,omitempty"`
}

// AboutContent is the copy bag for the about page.
type AboutContent struct {
	Story          string          `json:"story,omitempty"`
	Mission        string          `json:"mission,omitempty"`
	TeamImage      string          `json:"teamImage,omitempty"`
	Team           []TeamMember    `json:"team,omitempty"`
	CustomSections []CustomSection `json:"customSections,omitempty"`
}

// FooterLinks holds the footer social media URLs. A link is shown only when
// its URL is non-empty.
type FooterLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// LegalContent holds the privacy policy and terms of service as HTML blobs.
// Stored verbatim; sanitized at render time, not at write time.
type LegalContent struct {
	PrivacyPolicy  string `json:"privacyPolicy,omitempty"`
	TermsOfService string `json:"termsOfService,omitempty"`
}
