package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/docuflow/internal/application/auth"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	DocumentUC *usecase.DocumentUseCase
	RequestUC  *usecase.RequestUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/profile", authHandler.Profile)

	// Companies y membresía
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies := protected.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Post("/join", companyHandler.Join)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Delete("/:id", companyHandler.Delete)
	companies.Post("/:id/leave", companyHandler.Leave)
	companies.Get("/:id/users", companyHandler.ListUsers)
	companies.Post("/:id/users", companyHandler.AddUser)
	companies.Put("/:id/users/:userId/role", companyHandler.UpdateUserRole)
	companies.Delete("/:id/users/:userId", companyHandler.RemoveUser)
	companies.Post("/:id/invitations", companyHandler.SendInvitation)
	companies.Get("/:id/invitations", companyHandler.ListCompanyInvitations)

	// Invitaciones del usuario autenticado
	invitations := protected.Group("/invitations")
	invitations.Get("/", companyHandler.ListInvitations)
	invitations.Post("/:id/respond", companyHandler.RespondInvitation)

	// Documents y aprobaciones
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	documents := protected.Group("/documents")
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Post("/:id/send-for-signature", documentHandler.SendForSignature)
	documents.Get("/:id/verify", documentHandler.Verify)
	documents.Get("/:id/approvals", documentHandler.ListDocumentApprovals)

	approvals := protected.Group("/approvals")
	approvals.Get("/", documentHandler.ListApprovals)
	approvals.Post("/:id/decision", documentHandler.DecideApproval)

	// Solicitudes de firma entre usuarios
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests := protected.Group("/requests")
	requests.Post("/", requestHandler.Send)
	requests.Get("/", requestHandler.List)
	requests.Get("/incoming", requestHandler.ListIncoming)
	requests.Get("/outgoing", requestHandler.ListOutgoing)
	requests.Post("/:id/sign", requestHandler.Sign)
	requests.Post("/:id/decline", requestHandler.Decline)
}
