package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	JoinCode    string    `json:"join_code"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// JoinCompanyRequest entrada para unirse con código (case-insensitive).
type JoinCompanyRequest struct {
	JoinCode string `json:"join_code" validate:"required,len=8"`
}

// UpdateRoleRequest entrada para cambiar el rol de un miembro.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin super_manager manager employee"`
}

// SendInvitationRequest entrada para invitar a un usuario a la empresa.
type SendInvitationRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// RespondInvitationRequest entrada para aceptar o rechazar una invitación.
type RespondInvitationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// InvitationResponse salida de una invitación.
type InvitationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
