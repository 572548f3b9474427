// Copyright (c) 2025-2026 Aziz Abboud
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteServices is the services listing route.
	RouteServices = "/services"
	// RoutePricing is the pricing route.
	RoutePricing = "/pricing"
	// RouteAbout is the about route.
	RouteAbout = "/about"
	// RouteContact is the contact route.
	RouteContact = "/contact"
	// RoutePrivacy is the privacy policy route.
	RoutePrivacy = "/privacy-policy"
	// RouteTerms is the terms of service route.
	RouteTerms = "/terms-of-service"

	// RouteSignIn is the sign-in route.
	RouteSignIn = "/signin"
	// RouteSignUp is the sign-up route.
	RouteSignUp = "/signup"
	// RouteForgotPassword is the forgot-password route.
	RouteForgotPassword = "/forgot-password"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteOrder is the order form route.
	RouteOrder = "/order"
	// RouteOrderType is the order form route preselecting a plan.
	RouteOrderType = "/order/{type}"
	// RouteMyOrders is the signed-in user's order history route.
	RouteMyOrders = "/my-orders"

	// RouteAdmin is the admin panel root.
	RouteAdmin = "/admin"
)

// Admin tab paths, registered under RouteAdmin.
const (
	TabOrders   = "orders"
	TabHome     = "home"
	TabAbout    = "about"
	TabServices = "services"
	TabPricing  = "pricing"
	TabContact  = "contact"
	TabUsers    = "users"
	TabMessages = "messages"
)

const (
	redirectAdmin         = RouteAdmin
	redirectAdminOrders   = RouteAdmin + "/orders"
	redirectAdminHome     = RouteAdmin + "/home"
	redirectAdminAbout    = RouteAdmin + "/about"
	redirectAdminServices = RouteAdmin + "/services"
	redirectAdminPricing  = RouteAdmin + "/pricing"
	redirectAdminContact  = RouteAdmin + "/contact"
	redirectAdminUsers    = RouteAdmin + "/users"
	redirectAdminMessages = RouteAdmin + "/messages"
	redirectSignIn        = RouteSignIn
	redirectSignUp        = RouteSignUp
	redirectContact       = RouteContact
	redirectOrder         = RouteOrder
)
