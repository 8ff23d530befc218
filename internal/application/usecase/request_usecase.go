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

// notifyTimeout límite para el envío en background de una notificación.
const notifyTimeout = 15 * time.Second

// RequestUseCase implementa el flujo peer-to-peer de solicitudes de firma.
// Es independiente del flujo de aprobaciones, pero la firma del documento
// pasa por la misma transición entity.Document.MarkSigned con una firma
// real sobre los bytes del archivo: no existe un camino que deje un
// documento firmado sin firma criptográfica.
type RequestUseCase struct {
	userRepo    repository.UserRepository
	docRepo     repository.DocumentRepository
	requestRepo repository.RequestRepository
	tx          TxRunner
	storage     FileStorage
	signer      DocumentSigner
	notifier    Notifier
	log         *logger.Logger
}

// NewRequestUseCase construye el caso de uso con sus puertos.
func NewRequestUseCase(
	userRepo repository.UserRepository,
	docRepo repository.DocumentRepository,
	requestRepo repository.RequestRepository,
	tx TxRunner,
	storage FileStorage,
	signer DocumentSigner,
	notifier Notifier,
	log *logger.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		userRepo:    userRepo,
		docRepo:     docRepo,
		requestRepo: requestRepo,
		tx:          tx,
		storage:     storage,
		signer:      signer,
		notifier:    notifier,
		log:         log.Component("requests"),
	}
}

// Send crea una solicitud de firma hacia otro usuario y notifica al
// receptor. ErrNotFound si emisor, receptor o documento no existen.
func (uc *RequestUseCase) Send(ctx context.Context, senderID string, in dto.SendRequestRequest) (*dto.RequestResponse, error) {
	sender, err := uc.userRepo.GetByID(senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.userRepo.GetByID(in.ReceiverID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.docRepo.GetByID(in.DocumentID)
	if err != nil {
		return nil, err
	}
	if sender == nil || receiver == nil || doc == nil {
		return nil, domain.ErrNotFound
	}

	req := &entity.SignRequest{
		ID:         uuid.New().String(),
		Type:       entity.RequestOutgoing,
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		DocumentID: doc.ID,
		Status:     entity.RequestStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := uc.requestRepo.Create(req); err != nil {
		return nil, err
	}

	uc.notifyAsync(Notification{
		Kind:      NotificationSignRequest,
		Recipient: receiver,
		Actor:     sender,
		Document:  doc,
		Request:   req,
	})
	uc.log.Info().Str("request_id", req.ID).Str("receiver_id", receiver.ID).Msg("solicitud de firma enviada")
	return toRequestResponse(req), nil
}

// SignDocument firma el documento referido por la solicitud. Solo el
// receptor designado puede hacerlo (ErrForbidden); una solicitud ya
// resuelta es ErrConflict. La transición del documento y la solicitud se
// persisten en una sola transacción.
func (uc *RequestUseCase) SignDocument(ctx context.Context, requestID, signerID string) (*dto.RequestResponse, error) {
	now := time.Now()
	var (
		out *entity.SignRequest
		doc *entity.Document
	)
	err := uc.tx.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.ApprovalRepository,
		requestRepo repository.RequestRepository,
	) error {
		req, err := requestRepo.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.ReceiverID != signerID {
			return domain.ErrForbidden
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrConflict
		}

		doc, err = docRepo.GetByIDForUpdate(req.DocumentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
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
		if err := doc.MarkSigned(signerID, signatureHex, now); err != nil {
			return err
		}
		if err := docRepo.Update(doc); err != nil {
			return err
		}
		req.Status = entity.RequestStatusSigned
		out = req
		return requestRepo.Update(req)
	})
	if err != nil {
		return nil, err
	}

	if sender, serr := uc.userRepo.GetByID(out.SenderID); serr == nil && sender != nil {
		signer, _ := uc.userRepo.GetByID(signerID)
		uc.notifyAsync(Notification{
			Kind:      NotificationDocumentApproved,
			Recipient: sender,
			Actor:     signer,
			Document:  doc,
			Request:   out,
		})
	}
	uc.log.Info().Str("request_id", requestID).Str("signer_id", signerID).Msg("documento firmado vía solicitud")
	return toRequestResponse(out), nil
}

// Decline declina una solicitud pendiente (ErrConflict si ya fue
// resuelta) y notifica al emisor con el motivo opcional.
func (uc *RequestUseCase) Decline(ctx context.Context, requestID string, reason string) (*dto.RequestResponse, error) {
	var out *entity.SignRequest
	err := uc.tx.Run(ctx, func(
		_ repository.DocumentRepository,
		_ repository.ApprovalRepository,
		requestRepo repository.RequestRepository,
	) error {
		req, err := requestRepo.GetByIDForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrConflict
		}
		req.Status = entity.RequestStatusDeclined
		out = req
		return requestRepo.Update(req)
	})
	if err != nil {
		return nil, err
	}

	if sender, serr := uc.userRepo.GetByID(out.SenderID); serr == nil && sender != nil {
		receiver, _ := uc.userRepo.GetByID(out.ReceiverID)
		doc, _ := uc.docRepo.GetByID(out.DocumentID)
		uc.notifyAsync(Notification{
			Kind:      NotificationDocumentRejected,
			Recipient: sender,
			Actor:     receiver,
			Document:  doc,
			Request:   out,
			Reason:    reason,
		})
	}
	uc.log.Info().Str("request_id", requestID).Msg("solicitud declinada")
	return toRequestResponse(out), nil
}

// ListIncoming lista las solicitudes recibidas por el usuario.
func (uc *RequestUseCase) ListIncoming(ctx context.Context, userID string) ([]dto.RequestResponse, error) {
	reqs, err := uc.requestRepo.ListByReceiver(userID, entity.RequestOutgoing)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

// ListOutgoing lista las solicitudes enviadas por el usuario.
func (uc *RequestUseCase) ListOutgoing(ctx context.Context, userID string) ([]dto.RequestResponse, error) {
	reqs, err := uc.requestRepo.ListBySender(userID, entity.RequestOutgoing)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

// ListByUser lista todas las solicitudes donde el usuario participa.
func (uc *RequestUseCase) ListByUser(ctx context.Context, userID string) ([]dto.RequestResponse, error) {
	reqs, err := uc.requestRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(reqs), nil
}

// notifyAsync despacha la notificación en background. Un fallo se
// registra y se descarta: nunca afecta la operación principal.
func (uc *RequestUseCase) notifyAsync(n Notification) {
	if uc.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.log.Warn().Err(err).Str("kind", n.Kind).Msg("fallo al enviar notificación")
		}
	}()
}

func toRequestResponse(r *entity.SignRequest) *dto.RequestResponse {
	if r == nil {
		return nil
	}
	return &dto.RequestResponse{
		ID:         r.ID,
		Type:       r.Type,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		DocumentID: r.DocumentID,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

func toRequestResponses(reqs []*entity.SignRequest) []dto.RequestResponse {
	items := make([]dto.RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, *toRequestResponse(r))
	}
	return items
}
