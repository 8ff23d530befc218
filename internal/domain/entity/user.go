package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleSuperManager = "super_manager"
	RoleManager      = "manager"
	RoleEmployee     = "employee"
)

// ValidRole verifica que el rol pertenezca al conjunto cerrado de roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperManager, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema. CompanyID es nil mientras el
// usuario no pertenezca a ninguna empresa (un usuario pertenece a lo sumo
// a una empresa a la vez).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // ver constantes Role*
	CompanyID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberOf indica si el usuario pertenece a la empresa dada.
func (u *User) MemberOf(companyID string) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}

// FullName nombre completo para notificaciones.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
