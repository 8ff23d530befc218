// Package authz centraliza las decisiones de autorización sobre empresas.
// Todos los casos de uso consultan Can en lugar de duplicar comparaciones
// de rol por operación.
package authz

import "github.com/tu-usuario/docuflow/internal/domain/entity"

// Action acciones autorizables sobre una empresa.
type Action string

const (
	ActionInvite        Action = "invite"         // enviar invitaciones
	ActionManageMembers Action = "manage_members" // cambiar roles, expulsar miembros
	ActionViewMembers   Action = "view_members"   // listar miembros
)

// Can decide si el principal puede ejecutar la acción sobre la empresa.
//   - invite: solo el creador de la empresa.
//   - manage_members: el creador o un super_manager miembro.
//   - view_members: cualquier miembro (el creador siempre puede).
func Can(principal *entity.User, company *entity.Company, action Action) bool {
	if principal == nil || company == nil {
		return false
	}
	switch action {
	case ActionInvite:
		return company.IsCreator(principal.ID)
	case ActionManageMembers:
		if company.IsCreator(principal.ID) {
			return true
		}
		return principal.Role == entity.RoleSuperManager && principal.MemberOf(company.ID)
	case ActionViewMembers:
		return company.IsCreator(principal.ID) || principal.MemberOf(company.ID)
	}
	return false
}
