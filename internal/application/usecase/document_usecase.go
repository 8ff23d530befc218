package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/domain/repository"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

// DocumentUseCase es el dueño del ciclo de vida de documentos y sus
// aprobaciones. Las transiciones de estado se ejecutan dentro del TxRunner
// con row lock sobre el documento, y siempre a través de los métodos de
// transición de entity.Document.
type DocumentUseCase struct {
	userRepo     repository.UserRepository
	docRepo      repository.DocumentRepository
	approvalRepo repository.ApprovalRepository
	tx           TxRunner
	storage      FileStorage
	signer       DocumentSigner
	log          *logger.Logger
}

// NewDocumentUseCase construye el caso de uso con sus puertos.
func NewDocumentUseCase(
	userRepo repository.UserRepository,
	docRepo repository.DocumentRepository,
	approvalRepo repository.ApprovalRepository,
	tx TxRunner,
	storage FileStorage,
	signer DocumentSigner,
	log *logger.Logger,
) *DocumentUseCase {
	return &DocumentUseCase{
		userRepo:     userRepo,
		docRepo:      docRepo,
		approvalRepo: approvalRepo,
		tx:           tx,
		storage:      storage,
		signer:       signer,
		log:          log.Component("documents"),
	}
}

// Create sube el archivo al storage y persiste el documento en estado
// created. Si el storage falla no se persiste nada: un Document sin
// locator válido no existe.
func (uc *DocumentUseCase) Create(ctx context.Context, in dto.CreateDocumentRequest, creatorID string, fileBytes []byte, filename, mimetype string) (*dto.DocumentResponse, error) {
	creator, err := uc.userRepo.GetByID(creatorID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Title == "" || len(fileBytes) == 0 {
		return nil, domain.ErrInvalidInput
	}

	locator, err := uc.storage.Put(ctx, fileBytes, filename, mimetype)
	if err != nil {
		return nil, fmt.Errorf("subir archivo: %w", err)
	}

	now := time.Now()
	doc := &entity.Document{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Status:    entity.DocumentCreated,
		CreatedBy: creator.ID,
		FileKey:   &locator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.docRepo.Create(doc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", doc.ID).Str("created_by", creator.ID).Msg("documento creado")
	return toDocumentResponse(doc), nil
}

// SendForSignature transiciona created → pending_signature y deja una
// aprobación pendiente que vincula solicitante, aprobador y documento.
// El aprobador debe ser distinto del solicitante (ErrConflict).
func (uc *DocumentUseCase) SendForSignature(ctx context.Context, documentID, approverID, requesterID string) (*dto.ApprovalResponse, error) {
	if approverID == requesterID {
		return nil, domain.ErrConflict
	}
	for _, id := range []string{approverID, requesterID} {
		u, err := uc.userRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.ErrUserNotFound
		}
	}

	now := time.Now()
	approval := &entity.Approval{
		ID:          uuid.New().String(),
		DocumentID:  documentID,
		ApproverID:  approverID,
		RequesterID: requesterID,
		Decision:    entity.ApprovalPending,
		CreatedAt:   now,
	}
	err := uc.tx.Run(ctx, func(
		docRepo repository.DocumentRepository,
		approvalRepo repository.ApprovalRepository,
		_ repository.RequestRepository,
	) error {
		doc, err := docRepo.GetByIDForUpdate(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if err := doc.SubmitForSignature(now); err != nil {
			return err
		}
		if err := docRepo.Update(doc); err != nil {
			return err
		}
		return approvalRepo.Create(approval)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", documentID).Str("approver_id", approverID).Msg("documento enviado a firma")
	return toApprovalResponse(approval), nil
}

// HandleApprovalDecision resuelve una aprobación pendiente.
//   - approved: el documento debe estar en pending_signature; se
//     recuperan los bytes del archivo, se firma sobre ellos y se
//     transiciona a signed con el aprobador como último modificador.
//   - rejected: solo se registra la decisión; el estado del documento
//     no cambia.
//
// Toda la resolución ocurre en una única transacción con row lock sobre
// la aprobación (y, al aprobar, también sobre el documento): dos decisiones
// concurrentes se serializan y la segunda falla con ErrConflict.
func (uc *DocumentUseCase) HandleApprovalDecision(ctx context.Context, approvalID, decision string) (*dto.ApprovalResponse, error) {
	if decision != entity.ApprovalApproved && decision != entity.ApprovalRejected {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var out *entity.Approval
	err := uc.tx.Run(ctx, func(
		docRepo repository.DocumentRepository,
		approvalRepo repository.ApprovalRepository,
		_ repository.RequestRepository,
	) error {
		approval, err := approvalRepo.GetByIDForUpdate(approvalID)
		if err != nil {
			return err
		}
		if approval == nil {
			return domain.ErrNotFound
		}

		if decision == entity.ApprovalRejected {
			if err := approval.Decide(entity.ApprovalRejected, now); err != nil {
				return err
			}
			out = approval
			return approvalRepo.Update(approval)
		}

		doc, err := docRepo.GetByIDForUpdate(approval.DocumentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.DocumentPendingSignature {
			return domain.ErrInvalidState
		}
		if doc.FileKey == nil {
			return domain.ErrInvalidState
		}
		fileBytes, err := uc.storage.Get(ctx, *doc.FileKey)
		if err != nil {
			return fmt.Errorf("leer archivo del storage: %w", err)
		}
		signatureHex, err := uc.signer.Sign(fileBytes)
		if err != nil {
			return fmt.Errorf("firmar documento: %w", err)
		}
		if err := approval.Decide(entity.ApprovalApproved, now); err != nil {
			return err
		}
		if err := doc.MarkSigned(approval.ApproverID, signatureHex, now); err != nil {
			return err
		}
		if err := docRepo.Update(doc); err != nil {
			return err
		}
		out = approval
		return approvalRepo.Update(approval)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("approval_id", approvalID).Str("decision", decision).Msg("aprobación resuelta")
	return toApprovalResponse(out), nil
}

// ListApprovals lista las aprobaciones asignadas al usuario como aprobador,
// pendientes o ya resueltas. Es como un aprobador descubre qué tiene por firmar.
func (uc *DocumentUseCase) ListApprovals(ctx context.Context, approverID string) ([]dto.ApprovalResponse, error) {
	user, err := uc.userRepo.GetByID(approverID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	approvals, err := uc.approvalRepo.ListByApprover(approverID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		items = append(items, *toApprovalResponse(a))
	}
	return items, nil
}

// ListDocumentApprovals lista las aprobaciones de un documento, acotado
// estrictamente a su creador.
func (uc *DocumentUseCase) ListDocumentApprovals(ctx context.Context, userID, documentID string) ([]dto.ApprovalResponse, error) {
	doc, err := uc.docRepo.GetByCreatorAndID(userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	approvals, err := uc.approvalRepo.ListByDocument(documentID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		items = append(items, *toApprovalResponse(a))
	}
	return items, nil
}

// Delete borra el documento de forma permanente, sin importar su estado.
func (uc *DocumentUseCase) Delete(ctx context.Context, id string) error {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return domain.ErrNotFound
	}
	if err := uc.docRepo.Delete(id); err != nil {
		return err
	}
	uc.log.Info().Str("document_id", id).Msg("documento eliminado")
	return nil
}

// GetByUserAndID obtiene un documento, acotado estrictamente a su creador.
func (uc *DocumentUseCase) GetByUserAndID(ctx context.Context, userID, documentID string) (*dto.DocumentResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	doc, err := uc.docRepo.GetByCreatorAndID(userID, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	return toDocumentResponse(doc), nil
}

// ListByUser lista los documentos creados por el usuario.
func (uc *DocumentUseCase) ListByUser(ctx context.Context, userID string) ([]dto.DocumentResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	docs, err := uc.docRepo.ListByCreator(userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		items = append(items, *toDocumentResponse(d))
	}
	return items, nil
}

// VerifySignature vuelve a leer los bytes del archivo y comprueba la firma
// almacenada contra ellos. Si el contenido cambió después de firmar, la
// verificación falla con ErrIntegrity.
func (uc *DocumentUseCase) VerifySignature(ctx context.Context, documentID string) (*dto.VerifyResponse, error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if doc.Signature == nil || doc.FileKey == nil {
		return nil, domain.ErrInvalidState
	}
	fileBytes, err := uc.storage.Get(ctx, *doc.FileKey)
	if err != nil {
		return nil, fmt.Errorf("leer archivo del storage: %w", err)
	}
	ok, err := uc.signer.Verify(fileBytes, *doc.Signature)
	if err != nil {
		return nil, fmt.Errorf("verificar firma: %w", err)
	}
	if !ok {
		return nil, domain.ErrIntegrity
	}
	return &dto.VerifyResponse{DocumentID: doc.ID, Valid: true}, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	return &dto.DocumentResponse{
		ID:        d.ID,
		Title:     d.Title,
		Status:    d.Status,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		FileKey:   d.FileKey,
		Signature: d.Signature,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toApprovalResponse(a *entity.Approval) *dto.ApprovalResponse {
	if a == nil {
		return nil
	}
	return &dto.ApprovalResponse{
		ID:          a.ID,
		DocumentID:  a.DocumentID,
		ApproverID:  a.ApproverID,
		RequesterID: a.RequesterID,
		Decision:    a.Decision,
		CreatedAt:   a.CreatedAt,
		DecidedAt:   a.DecidedAt,
	}
}
