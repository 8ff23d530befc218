package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación del puerto RequestRepository sobre PostgreSQL.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, type, sender_id, receiver_id, document_id, status, created_at`

// Create persiste una nueva solicitud de firma.
func (r *RequestRepo) Create(req *entity.SignRequest) error {
	query := `
		INSERT INTO sign_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Type, req.SenderID, req.ReceiverID, req.DocumentID, req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sign request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(id string) (*entity.SignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM sign_requests WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene una solicitud tomando un row lock. Solo tiene
// efecto dentro de una transacción (TxRunner).
func (r *RequestRepo) GetByIDForUpdate(id string) (*entity.SignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM sign_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// Update actualiza el estado de una solicitud.
func (r *RequestRepo) Update(req *entity.SignRequest) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sign_requests SET status = $2 WHERE id = $1`, req.ID, req.Status)
	if err != nil {
		return fmt.Errorf("update sign request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBySender lista las solicitudes enviadas por un usuario, por tipo.
func (r *RequestRepo) ListBySender(senderID, reqType string) ([]*entity.SignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM sign_requests WHERE sender_id = $1 AND type = $2 ORDER BY created_at DESC`
	return r.list(query, senderID, reqType)
}

// ListByReceiver lista las solicitudes recibidas por un usuario, por tipo.
func (r *RequestRepo) ListByReceiver(receiverID, reqType string) ([]*entity.SignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM sign_requests WHERE receiver_id = $1 AND type = $2 ORDER BY created_at DESC`
	return r.list(query, receiverID, reqType)
}

// ListByUser lista todas las solicitudes donde el usuario es emisor o receptor.
func (r *RequestRepo) ListByUser(userID string) ([]*entity.SignRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM sign_requests WHERE sender_id = $1 OR receiver_id = $1 ORDER BY created_at DESC`
	return r.list(query, userID)
}

func (r *RequestRepo) scanOne(query string, args ...any) (*entity.SignRequest, error) {
	var req entity.SignRequest
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&req.ID, &req.Type, &req.SenderID, &req.ReceiverID, &req.DocumentID, &req.Status, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sign request: %w", err)
	}
	return &req, nil
}

func (r *RequestRepo) list(query string, args ...any) ([]*entity.SignRequest, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sign requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.SignRequest
	for rows.Next() {
		var req entity.SignRequest
		if err := rows.Scan(
			&req.ID, &req.Type, &req.SenderID, &req.ReceiverID, &req.DocumentID, &req.Status, &req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sign request: %w", err)
		}
		reqs = append(reqs, &req)
	}
	return reqs, rows.Err()
}
