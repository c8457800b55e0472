// Package policy centralizes every role-based access decision. Handlers and
// services never compare role strings inline; they ask this table.
package policy

import "github.com/Entelsac/ENTEL-SAC/internal/models"

type Action string

const (
	ActionViewDashboard    Action = "view_dashboard"
	ActionViewPages        Action = "view_pages"
	ActionCreateOrder      Action = "create_order"
	ActionClaimOrder       Action = "claim_order"
	ActionUploadArtifact   Action = "upload_artifact"
	ActionViewOrder        Action = "view_order"
	ActionDownloadArtifact Action = "download_artifact"
	ActionViewAdminPanel   Action = "view_admin_panel"
	ActionCreateUser       Action = "create_user"
	ActionDeleteUser       Action = "delete_user"
	ActionAddCredits       Action = "add_credits"
)

// table is the single source of truth for the coarse (role, action) gate.
// Ownership-level checks live in the Can* helpers below.
var table = map[Action]map[models.Role]bool{
	ActionViewDashboard: {
		models.RoleClient:     true,
		models.RoleOperator:   true,
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionViewPages: {
		models.RoleClient:     true,
		models.RoleOperator:   true,
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionViewOrder: {
		models.RoleClient:     true,
		models.RoleOperator:   true,
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionDownloadArtifact: {
		models.RoleClient:     true,
		models.RoleOperator:   true,
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionCreateOrder: {
		models.RoleClient:     true,
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionClaimOrder: {
		models.RoleOperator:   true,
		models.RoleSuperadmin: true,
	},
	ActionUploadArtifact: {
		models.RoleOperator:   true,
		models.RoleSuperadmin: true,
	},
	ActionViewAdminPanel: {
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionCreateUser: {
		models.RoleAdmin:      true,
		models.RoleSuperadmin: true,
	},
	ActionDeleteUser: {
		models.RoleSuperadmin: true,
	},
	ActionAddCredits: {
		models.RoleSuperadmin: true,
	},
}

// Allowed reports whether the role passes the coarse gate for the action.
func Allowed(role models.Role, action Action) bool {
	return table[action][role]
}

// CanViewOrder applies the ownership layer on top of ActionViewOrder:
// clients only see their own orders. Operators, admins and superadmins see
// every order.
func CanViewOrder(actor *models.User, order *models.Order) bool {
	if !Allowed(actor.Role, ActionViewOrder) {
		return false
	}
	if actor.Role == models.RoleClient {
		return order.ClientUsername == actor.Username
	}
	return true
}

// CanUploadArtifact applies the assignee layer on top of
// ActionUploadArtifact: a superadmin may upload to any order, an operator
// only to orders currently assigned to them.
func CanUploadArtifact(actor *models.User, order *models.Order) bool {
	if !Allowed(actor.Role, ActionUploadArtifact) {
		return false
	}
	if actor.Role == models.RoleSuperadmin {
		return true
	}
	return order.AssignedTo == actor.Username
}

// protectedUsernames are the bootstrap superadmin identities. They can
// never be deleted, by anyone.
var protectedUsernames = map[string]bool{
	"root":    true,
	"airbone": true,
}

// IsProtectedUser reports whether the username is a bootstrap identity that
// must survive every delete request.
func IsProtectedUser(username string) bool {
	return protectedUsernames[username]
}

// AllowedNewRole reports whether an actor may create an account with the
// given role. Superadmins may create clients, operators and admins; admins
// only clients. Nobody creates superadmins through the API.
func AllowedNewRole(actorRole, newRole models.Role) bool {
	if !newRole.Valid() || newRole == models.RoleSuperadmin {
		return false
	}
	switch actorRole {
	case models.RoleSuperadmin:
		return true
	case models.RoleAdmin:
		return newRole == models.RoleClient
	}
	return false
}
