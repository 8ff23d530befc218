package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
)

// CompanyHandler maneja empresas, membresía e invitaciones.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empresa (el creador queda como super_manager)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCompanyRequest  true  "name, description"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar empresas con paginación
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máximo de resultados (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar la empresa (solo el creador)
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "company id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "company id"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Join godoc
// @Summary      Unirse a una empresa con código (case-insensitive)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.JoinCompanyRequest  true  "join_code"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/join [post]
func (h *CompanyHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.JoinCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "join_code es requerido"})
	}
	out, err := h.uc.JoinWithCode(in.JoinCode, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Leave godoc
// @Summary      Abandonar la empresa
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "company id"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/leave [post]
func (h *CompanyHandler) Leave(c *fiber.Ctx) error {
	if err := h.uc.Leave(c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddUser godoc
// @Summary      Agregar un usuario a la empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "company id"
// @Param        body  body  dto.SendInvitationRequest  true  "user_id"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/users [post]
func (h *CompanyHandler) AddUser(c *fiber.Ctx) error {
	var in dto.SendInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	out, err := h.uc.AddUser(c.Params("id"), in.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Listar miembros de la empresa
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "company id"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/companies/{id}/users [get]
func (h *CompanyHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.uc.ListUsers(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateUserRole godoc
// @Summary      Cambiar el rol de un miembro (creador o super_manager)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "company id"
// @Param        userId  path  string  true  "user id"
// @Param        body    body  dto.UpdateRoleRequest  true  "role"
// @Success      200     {object}  dto.UserResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/users/{userId}/role [put]
func (h *CompanyHandler) UpdateUserRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateUserRole(c.Params("id"), c.Params("userId"), in.Role, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveUser godoc
// @Summary      Quitar un miembro de la empresa (creador o super_manager)
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string  true  "company id"
// @Param        userId  path  string  true  "user id"
// @Success      204
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/users/{userId} [delete]
func (h *CompanyHandler) RemoveUser(c *fiber.Ctx) error {
	if err := h.uc.RemoveUser(c.Params("id"), c.Params("userId"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendInvitation godoc
// @Summary      Invitar a un usuario a la empresa (solo el creador)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "company id"
// @Param        body  body  dto.SendInvitationRequest  true  "user_id"
// @Success      201   {object}  dto.InvitationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/invitations [post]
func (h *CompanyHandler) SendInvitation(c *fiber.Ctx) error {
	var in dto.SendInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "user_id es requerido"})
	}
	out, err := h.uc.SendInvitation(c.Params("id"), in.UserID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCompanyInvitations godoc
// @Summary      Listar las invitaciones emitidas por la empresa (creador o super_manager)
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "company id"
// @Success      200  {array}  dto.InvitationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/invitations [get]
func (h *CompanyHandler) ListCompanyInvitations(c *fiber.Ctx) error {
	out, err := h.uc.ListCompanyInvitations(c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RespondInvitation godoc
// @Summary      Aceptar o rechazar una invitación recibida
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "invitation id"
// @Param        body  body  dto.RespondInvitationRequest  true  "status: accepted | rejected"
// @Success      200   {object}  dto.InvitationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invitations/{id}/respond [post]
func (h *CompanyHandler) RespondInvitation(c *fiber.Ctx) error {
	var in dto.RespondInvitationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RespondToInvitation(c.Params("id"), in.Status, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListInvitations godoc
// @Summary      Listar invitaciones del usuario autenticado
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.InvitationResponse
// @Router       /api/invitations [get]
func (h *CompanyHandler) ListInvitations(c *fiber.Ctx) error {
	out, err := h.uc.ListInvitations(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
