package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission is a named capability a user can be granted. Permissions are
// grouped by category for display purposes; the name alone is what the
// authorization gate checks.
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Permission names checked by route gates. These match the rows seeded by
// the permissions migration.
const (
	PermViewClients   = "view_clients"
	PermCreateClients = "create_clients"
	PermEditClients   = "edit_clients"
	PermDeleteClients = "delete_clients"

	PermViewProducts   = "view_products"
	PermCreateProducts = "create_products"
	PermEditProducts   = "edit_products"
	PermDeleteProducts = "delete_products"

	PermViewLeads   = "view_leads"
	PermCreateLeads = "create_leads"
	PermEditLeads   = "edit_leads"
	PermDeleteLeads = "delete_leads"

	PermViewOpportunities   = "view_opportunities"
	PermCreateOpportunities = "create_opportunities"
	PermEditOpportunities   = "edit_opportunities"
	PermDeleteOpportunities = "delete_opportunities"

	PermViewQuotations   = "view_quotations"
	PermCreateQuotations = "create_quotations"
	PermEditQuotations   = "edit_quotations"
	PermDeleteQuotations = "delete_quotations"
	PermGeneratePDF      = "generate_pdf"

	PermViewProjects   = "view_projects"
	PermCreateProjects = "create_projects"
	PermEditProjects   = "edit_projects"
	PermDeleteProjects = "delete_projects"

	PermViewTasks   = "view_tasks"
	PermCreateTasks = "create_tasks"
	PermEditTasks   = "edit_tasks"
	PermDeleteTasks = "delete_tasks"

	PermManageUsers       = "manage_users"
	PermManagePermissions = "manage_permissions"
	PermManageTaskAdmin   = "manage_task_admin"
	PermViewReports       = "view_reports"
)
