package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
)

// maxUploadSize límite de tamaño del archivo adjunto (20 MB).
const maxUploadSize = 20 << 20

// DocumentHandler maneja el ciclo de vida de documentos y aprobaciones.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler de documentos.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear documento (multipart: title + file)
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title  formData  string  true  "título del documento"
// @Param        file   formData  file    true  "archivo a almacenar"
// @Success      201    {object}  dto.DocumentResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "title es requerido"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido (campo file)"})
	}
	if fileHeader.Size > maxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo excede el tamaño máximo"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	fileBytes, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer el archivo"})
	}

	out, err := h.uc.Create(c.Context(), in, GetUserID(c), fileBytes, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos del usuario autenticado
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un documento propio
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "document id"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByUserAndID(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento (permanente, en cualquier estado)
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "document id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendForSignature godoc
// @Summary      Enviar documento a firma de un aprobador
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "document id"
// @Param        body  body  dto.SendForSignatureRequest  true  "approver_id"
// @Success      201   {object}  dto.ApprovalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/send-for-signature [post]
func (h *DocumentHandler) SendForSignature(c *fiber.Ctx) error {
	var in dto.SendForSignatureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ApproverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "approver_id es requerido"})
	}
	out, err := h.uc.SendForSignature(c.Context(), c.Params("id"), in.ApproverID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListApprovals godoc
// @Summary      Listar las aprobaciones asignadas al usuario como aprobador
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ApprovalResponse
// @Router       /api/approvals [get]
func (h *DocumentHandler) ListApprovals(c *fiber.Ctx) error {
	out, err := h.uc.ListApprovals(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListDocumentApprovals godoc
// @Summary      Listar las aprobaciones de un documento propio
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "document id"
// @Success      200  {array}  dto.ApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/approvals [get]
func (h *DocumentHandler) ListDocumentApprovals(c *fiber.Ctx) error {
	out, err := h.uc.ListDocumentApprovals(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DecideApproval godoc
// @Summary      Aprobar o rechazar una aprobación pendiente
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "approval id"
// @Param        body  body  dto.ApprovalDecisionRequest  true  "decision: approved | rejected"
// @Success      200   {object}  dto.ApprovalResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/decision [post]
func (h *DocumentHandler) DecideApproval(c *fiber.Ctx) error {
	var in dto.ApprovalDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.HandleApprovalDecision(c.Context(), c.Params("id"), in.Decision)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar la firma de un documento contra su contenido actual
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "document id"
// @Success      200  {object}  dto.VerifyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/verify [get]
func (h *DocumentHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.VerifySignature(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
