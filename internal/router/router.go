// Package router sets up all HTTP routes and middleware chains for the
// QuoteDesk API. Every route under /api except login and health runs
// behind bearer authentication; mutating routes are additionally gated by
// named permissions.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quotedesk/internal/handlers"
	"quotedesk/internal/middleware"
	"quotedesk/internal/models"
	"quotedesk/internal/store"
	"quotedesk/internal/token"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Tokens        *token.Manager
	Users         *store.UserStore
	LoginLimiter  *middleware.RateLimiter
	Auth          *handlers.Auth
	UserAdmin     *handlers.Users
	Clients       *handlers.Clients
	Leads         *handlers.Leads
	Opportunities *handlers.Opportunities
	Products      *handlers.Products
	Quotations    *handlers.Quotations
	Templates     *handlers.Templates
	Projects      *handlers.Projects
	Tasks         *handlers.Tasks
	TaskAdmin     *handlers.TaskAdmin
	Analytics     *handlers.Analytics
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		// Health check — no auth.
		r.Get("/health", healthHandler)

		// Login — rate limited, no auth.
		r.Group(func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Middleware)
			}
			r.Post("/auth/login", d.Auth.Login)
		})

		// Everything below requires a valid bearer token backed by a
		// live, active user row.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Tokens, d.Users))

			r.Get("/auth/me", d.Auth.Me)
			r.Post("/auth/refresh", d.Auth.Refresh)

			// perm gates a subtree behind one named permission.
			perm := func(name string) func(http.Handler) http.Handler {
				return middleware.RequirePermission(d.Users, name)
			}

			r.Route("/clients", func(r chi.Router) {
				r.With(perm(models.PermViewClients)).Get("/", d.Clients.List)
				r.With(perm(models.PermViewClients)).Get("/{id}", d.Clients.Get)
				r.With(perm(models.PermCreateClients)).Post("/", d.Clients.Create)
				r.With(perm(models.PermEditClients)).Put("/{id}", d.Clients.Update)
				r.With(perm(models.PermDeleteClients)).Delete("/{id}", d.Clients.Delete)

				// Contacts ride on the client permissions.
				r.With(perm(models.PermViewClients)).Get("/{id}/contacts", d.Clients.ListContacts)
				r.With(perm(models.PermEditClients)).Post("/{id}/contacts", d.Clients.CreateContact)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.With(perm(models.PermEditClients)).Put("/{contactID}", d.Clients.UpdateContact)
				r.With(perm(models.PermEditClients)).Put("/{contactID}/primary", d.Clients.SetPrimaryContact)
				r.With(perm(models.PermEditClients)).Delete("/{contactID}", d.Clients.DeleteContact)
			})

			r.Route("/leads", func(r chi.Router) {
				r.With(perm(models.PermViewLeads)).Get("/", d.Leads.List)
				r.With(perm(models.PermViewLeads)).Get("/{id}", d.Leads.Get)
				r.With(perm(models.PermCreateLeads)).Post("/", d.Leads.Create)
				r.With(perm(models.PermEditLeads)).Put("/{id}", d.Leads.Update)
				r.With(perm(models.PermDeleteLeads)).Delete("/{id}", d.Leads.Delete)
			})

			r.Route("/opportunities", func(r chi.Router) {
				r.With(perm(models.PermViewOpportunities)).Get("/", d.Opportunities.List)
				r.With(perm(models.PermViewOpportunities)).Get("/{id}", d.Opportunities.Get)
				r.With(perm(models.PermCreateOpportunities)).Post("/", d.Opportunities.Create)
				r.With(perm(models.PermEditOpportunities)).Put("/{id}", d.Opportunities.Update)
				r.With(perm(models.PermDeleteOpportunities)).Delete("/{id}", d.Opportunities.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.With(perm(models.PermViewProducts)).Get("/", d.Products.List)
				r.With(perm(models.PermViewProducts)).Get("/{id}", d.Products.Get)
				r.With(perm(models.PermCreateProducts)).Post("/", d.Products.Create)
				r.With(perm(models.PermEditProducts)).Put("/{id}", d.Products.Update)
				r.With(perm(models.PermDeleteProducts)).Delete("/{id}", d.Products.Delete)
			})

			// Tags and units ride on the product permissions.
			r.Route("/tags", func(r chi.Router) {
				r.With(perm(models.PermViewProducts)).Get("/", d.Products.ListTags)
				r.With(perm(models.PermEditProducts)).Post("/", d.Products.CreateTag)
				r.With(perm(models.PermEditProducts)).Delete("/{id}", d.Products.DeleteTag)
			})
			r.Route("/units", func(r chi.Router) {
				r.With(perm(models.PermViewProducts)).Get("/", d.Products.ListUnits)
				r.With(perm(models.PermEditProducts)).Post("/", d.Products.CreateUnit)
				r.With(perm(models.PermEditProducts)).Delete("/{id}", d.Products.DeleteUnit)
			})

			r.Route("/quotations", func(r chi.Router) {
				r.With(perm(models.PermViewQuotations)).Get("/", d.Quotations.List)
				r.With(perm(models.PermViewQuotations)).Get("/{id}", d.Quotations.Get)
				r.With(perm(models.PermCreateQuotations)).Post("/", d.Quotations.Create)
				r.With(perm(models.PermEditQuotations)).Put("/{id}", d.Quotations.Update)
				r.With(perm(models.PermDeleteQuotations)).Delete("/{id}", d.Quotations.Delete)
				r.With(perm(models.PermGeneratePDF)).Get("/{id}/pdf", d.Quotations.PDF)
			})

			// Templates ride on the quotation permissions.
			r.Route("/templates", func(r chi.Router) {
				r.With(perm(models.PermViewQuotations)).Get("/", d.Templates.List)
				r.With(perm(models.PermViewQuotations)).Get("/{id}", d.Templates.Get)
				r.With(perm(models.PermEditQuotations)).Post("/", d.Templates.Create)
				r.With(perm(models.PermEditQuotations)).Put("/{id}", d.Templates.Update)
				r.With(perm(models.PermEditQuotations)).Delete("/{id}", d.Templates.Delete)
				r.With(perm(models.PermEditQuotations)).Post("/{id}/logo", d.Templates.UploadLogo)
			})

			r.Route("/projects", func(r chi.Router) {
				r.With(perm(models.PermViewProjects)).Get("/", d.Projects.List)
				r.With(perm(models.PermViewProjects)).Get("/{id}", d.Projects.Get)
				r.With(perm(models.PermCreateProjects)).Post("/", d.Projects.Create)
				r.With(perm(models.PermEditProjects)).Put("/{id}", d.Projects.Update)
				r.With(perm(models.PermDeleteProjects)).Delete("/{id}", d.Projects.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.With(perm(models.PermViewTasks)).Get("/", d.Tasks.List)
				r.With(perm(models.PermViewTasks)).Get("/stats/overview", d.Tasks.Stats)
				r.With(perm(models.PermViewTasks)).Get("/{id}", d.Tasks.Get)
				r.With(perm(models.PermCreateTasks)).Post("/", d.Tasks.Create)
				r.With(perm(models.PermEditTasks)).Put("/{id}", d.Tasks.Update)
				r.With(perm(models.PermDeleteTasks)).Delete("/{id}", d.Tasks.Delete)

				r.With(perm(models.PermEditTasks)).Post("/{id}/members", d.Tasks.AddMember)
				r.With(perm(models.PermEditTasks)).Put("/{id}/members/{userID}", d.Tasks.SetMemberHours)
				r.With(perm(models.PermEditTasks)).Delete("/{id}/members/{userID}", d.Tasks.RemoveMember)
			})

			r.Route("/task-admin", func(r chi.Router) {
				r.Use(perm(models.PermManageTaskAdmin))
				r.Get("/departments", d.TaskAdmin.ListDepartments)
				r.Post("/departments", d.TaskAdmin.CreateDepartment)
				r.Put("/departments/{id}", d.TaskAdmin.UpdateDepartment)
				r.Delete("/departments/{id}", d.TaskAdmin.DeleteDepartment)
				r.Get("/subcategories", d.TaskAdmin.ListSubcategories)
				r.Post("/subcategories", d.TaskAdmin.CreateSubcategory)
				r.Put("/subcategories/{id}", d.TaskAdmin.UpdateSubcategory)
				r.Delete("/subcategories/{id}", d.TaskAdmin.DeleteSubcategory)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Use(perm(models.PermViewReports))
				r.Get("/overview", d.Analytics.Overview)
				r.Get("/users", d.Analytics.Users)
			})

			r.Route("/users", func(r chi.Router) {
				// Permission catalog and grant management sit under a
				// different gate than account management.
				r.With(perm(models.PermManagePermissions)).Get("/permissions/all", d.UserAdmin.ListAllPermissions)
				r.With(perm(models.PermManagePermissions)).Get("/{id}/permissions", d.UserAdmin.GetPermissions)
				r.With(perm(models.PermManagePermissions)).Put("/{id}/permissions", d.UserAdmin.SetPermissions)

				r.With(perm(models.PermManageUsers)).Get("/", d.UserAdmin.List)
				r.With(perm(models.PermManageUsers)).Post("/", d.UserAdmin.Create)
				r.With(perm(models.PermManageUsers)).Put("/{id}", d.UserAdmin.Update)
				r.With(perm(models.PermManageUsers)).Delete("/{id}", d.UserAdmin.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
