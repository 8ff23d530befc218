package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
)

// RequestHandler maneja las solicitudes de firma entre usuarios.
type RequestHandler struct {
	uc *usecase.RequestUseCase
}

// NewRequestHandler construye el handler de solicitudes.
func NewRequestHandler(uc *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Send godoc
// @Summary      Enviar solicitud de firma a otro usuario
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SendRequestRequest  true  "receiver_id, document_id"
// @Success      201   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Send(c *fiber.Ctx) error {
	var in dto.SendRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ReceiverID == "" || in.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "receiver_id y document_id son requeridos"})
	}
	out, err := h.uc.Send(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Sign godoc
// @Summary      Firmar el documento de una solicitud recibida
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "request id"
// @Success      200  {object}  dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/sign [post]
func (h *RequestHandler) Sign(c *fiber.Ctx) error {
	out, err := h.uc.SignDocument(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Decline godoc
// @Summary      Declinar una solicitud pendiente
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "request id"
// @Param        body  body  dto.DeclineRequestRequest  false  "reason opcional"
// @Success      200   {object}  dto.RequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/decline [post]
func (h *RequestHandler) Decline(c *fiber.Ctx) error {
	var in dto.DeclineRequestRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Decline(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListIncoming godoc
// @Summary      Listar solicitudes recibidas
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests/incoming [get]
func (h *RequestHandler) ListIncoming(c *fiber.Ctx) error {
	out, err := h.uc.ListIncoming(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListOutgoing godoc
// @Summary      Listar solicitudes enviadas
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests/outgoing [get]
func (h *RequestHandler) ListOutgoing(c *fiber.Ctx) error {
	out, err := h.uc.ListOutgoing(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar todas las solicitudes del usuario (enviadas y recibidas)
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
