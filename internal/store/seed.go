// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"

	"github.com/azizabboud/quickweb-go/internal/model"
)

// Default admin credentials. The password is stored in plaintext: the whole
// persistence layer is a non-authoritative demo, not a real credential store.
const (
	DefaultAdminID       = "admin-id"
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@quickweb.com"
	DefaultAdminPassword = "admin123"
)

// DefaultRoster returns the seed user roster: exactly one admin account.
func DefaultRoster() []model.UserWithSecret {
	return []model.UserWithSecret{
		{
			ID:       DefaultAdminID,
			Username: DefaultAdminUsername,
			Email:    DefaultAdminEmail,
			Password: DefaultAdminPassword,
			Role:     model.RoleAdmin,
			Active:   true,
		},
	}
}

// DefaultServices returns the four canonical offerings, one per plan type.
func DefaultServices() []model.Service {
	return []model.Service{
		{
			ID:          "service-1",
			Title:       "Basic Website",
			Description: "Simple static website for small businesses and individuals",
			Features: []string{
				"Responsive Design",
				"Up to 5 Pages",
				"Contact Form",
				"Basic SEO",
				"Mobile Friendly",
			},
			Price:        "$10",
			DeliveryTime: "3 days",
			Type:         model.ServiceBasic,
		},
		{
			ID:          "service-2",
			Title:       "Standard Website",
			Description: "Interactive design with advanced UI elements",
			Features: []string{
				"Everything in Basic",
				"Up to 10 Pages",
				"Custom Animations",
				"Advanced SEO",
				"Social Media Integration",
			},
			Price:        "$18",
			DeliveryTime: "4 days",
			Type:         model.ServiceStandard,
		},
		{
			ID:          "service-3",
			Title:       "Advanced Website",
			Description: "Fully customized website with premium features",
			Features: []string{
				"Everything in Standard",
				"Unlimited Pages",
				"Advanced Animations",
				"Premium SEO Package",
				"Google Analytics Integration",
				"Maintenance Support",
			},
			Price:        "$25",
			DeliveryTime: "5 days",
			Type:         model.ServiceAdvanced,
		},
		{
			ID:          "service-4",
			Title:       "E-Commerce Store",
			Description: "Professional online store for your products",
			Features: []string{
				"Product Listings",
				"Shopping Cart",
				"Payment Integration",
				"Order Management",
				"Customer Accounts",
				"Inventory Management",
			},
			Price:        "$79",
			DeliveryTime: "7-10 days",
			Type:         model.ServiceEcommerce,
		},
	}
}

// DefaultTestimonials returns the seed client quotes.
func DefaultTestimonials() []model.Testimonial {
	return []model.Testimonial{
		{
			ID:      "testimonial-1",
			Name:    "Sarah Johnson",
			Role:    "Small Business Owner",
			Content: "QuickWeb Creations transformed my business online presence. Their attention to detail and quick delivery exceeded my expectations!",
		},
		{
			ID:      "testimonial-2",
			Name:    "Michael Chang",
			Role:    "Photographer",
			Content: "My portfolio website looks amazing! The team was professional, responsive, and delivered exactly what I needed for my photography business.",
		},
		{
			ID:      "testimonial-3",
			Name:    "Elena Rodriguez",
			Role:    "E-commerce Entrepreneur",
			Content: "The online store they built for me is both beautiful and functional. Sales have increased by 40% since the launch!",
		},
	}
}

// DefaultOrders returns sample orders so a fresh install has something to
// manage in the admin panel.
func DefaultOrders() []model.Order {
	now := time.Now()
	return []model.Order{
		{
			ID:          "order-1",
			UserID:      "user-1",
			UserName:    "John Smith",
			UserEmail:   "john@example.com",
			ServiceType: "Basic Website",
			Status:      model.OrderCompleted,
			CreatedAt:   now.AddDate(0, 0, -15).Format(time.RFC3339),
			Details:     "Business website for a local plumber",
		},
		{
			ID:          "order-2",
			UserID:      "user-2",
			UserName:    "Emily Jones",
			UserEmail:   "emily@example.com",
			ServiceType: "Standard Website",
			Status:      model.OrderInProgress,
			CreatedAt:   now.AddDate(0, 0, -3).Format(time.RFC3339),
			Details:     "Portfolio website with gallery integration",
		},
		{
			ID:          "order-3",
			UserID:      "user-3",
			UserName:    "Robert Lee",
			UserEmail:   "robert@example.com",
			ServiceType: "E-Commerce Store",
			Status:      model.OrderPending,
			CreatedAt:   now.AddDate(0, 0, -1).Format(time.RFC3339),
			Details:     "Online store for handmade crafts with 50+ products",
		},
	}
}

// DefaultSiteContent returns the seed copy for the public pages.
func DefaultSiteContent() model.SiteContent {
	return model.SiteContent{
		HeroTitle:    "Professional Websites, Delivered Fast",
		HeroSubtitle: "We design modern, responsive, and SEO-optimized websites for businesses, individuals, and entrepreneurs.",
		AboutContent: "QuickWeb Creations is a professional web development service that helps businesses, individuals, and entrepreneurs establish a strong online presence. We design modern, responsive, and SEO-optimized websites with clean, high-quality code.",

		PricingTitle:       "Affordable Website Solutions",
		PricingSubtitle:    "Choose a plan that fits your needs",
		PricingDescription: "All plans include hosting, domain registration, and ongoing support",

		ContactTitle:    "Get in Touch",
		ContactSubtitle: "Have questions or ready to start your project? Contact us today for a free consultation.",
		ContactEmail:    "azizabboud00@gmail.com",
		ContactAddress:  "Remote Team - Available Worldwide",
	}
}

// DefaultAboutContent returns the seed copy for the about page.
func DefaultAboutContent() model.AboutContent {
	return model.AboutContent{
		Story:   "QuickWeb Creations started with a simple idea: professional websites should not take months or cost a fortune. We build fast, affordable sites without cutting corners on quality.",
		Mission: "Help businesses, individuals, and entrepreneurs establish a strong online presence with modern, responsive, SEO-optimized websites.",
		Team: []model.TeamMember{
			{
				Name: "Aziz Abboud",
				Role: "Founder & Lead Developer",
				Bio:  "Full-stack developer who ships clean, fast websites and keeps clients in the loop from kickoff to launch.",
			},
		},
	}
}

// DefaultFooterLinks returns the seed footer social links.
func DefaultFooterLinks() model.FooterLinks {
	return model.FooterLinks{
		Facebook:  "https://facebook.com/quickwebcreations",
		Instagram: "https://instagram.com/quickwebcreations",
		Twitter:   "https://twitter.com/quickwebcr",
	}
}

// DefaultLegalContent returns the seed privacy policy and terms of service.
func DefaultLegalContent() model.LegalContent {
	return model.LegalContent{
		PrivacyPolicy: "<h2>Privacy Policy</h2>" +
			"<p>QuickWeb Creations collects only the information you provide through our contact and order forms: your name, email address, and project details. We use it to respond to inquiries and deliver the services you order.</p>" +
			"<ul><li>We never sell your personal information.</li>" +
			"<li>We never share your data with third parties except as required to deliver your project.</li>" +
			"<li>You may request deletion of your account data at any time.</li></ul>",
		TermsOfService: "<h2>Terms of Service</h2>" +
			"<p>By placing an order you agree to provide accurate project requirements and timely feedback. Delivery estimates begin once requirements are confirmed.</p>" +
			"<ul><li>Quoted prices cover the features listed for each plan.</li>" +
			"<li>Revisions beyond the agreed scope may be quoted separately.</li>" +
			"<li>Either party may cancel an order before work begins for a full refund.</li></ul>",
	}
}
