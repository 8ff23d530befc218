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

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo implementación del puerto ApprovalRepository sobre PostgreSQL.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

const approvalColumns = `id, document_id, approver_id, requester_id, decision, created_at, decided_at`

// Create persiste una nueva aprobación.
func (r *ApprovalRepo) Create(approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		approval.ID, approval.DocumentID, approval.ApproverID, approval.RequesterID,
		approval.Decision, approval.CreatedAt, approval.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// GetByID obtiene una aprobación por ID.
func (r *ApprovalRepo) GetByID(id string) (*entity.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene una aprobación tomando un row lock. Solo tiene
// efecto dentro de una transacción (TxRunner).
func (r *ApprovalRepo) GetByIDForUpdate(id string) (*entity.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *ApprovalRepo) scanOne(query string, args ...any) (*entity.Approval, error) {
	var a entity.Approval
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.DocumentID, &a.ApproverID, &a.RequesterID,
		&a.Decision, &a.CreatedAt, &a.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return &a, nil
}

// Update actualiza la decisión de una aprobación.
func (r *ApprovalRepo) Update(approval *entity.Approval) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE approvals SET decision = $2, decided_at = $3 WHERE id = $1`,
		approval.ID, approval.Decision, approval.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("update approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByDocument lista las aprobaciones de un documento.
func (r *ApprovalRepo) ListByDocument(documentID string) ([]*entity.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE document_id = $1 ORDER BY created_at DESC`
	return r.list(query, documentID)
}

// ListByApprover lista las aprobaciones asignadas a un aprobador.
func (r *ApprovalRepo) ListByApprover(approverID string) ([]*entity.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM approvals WHERE approver_id = $1 ORDER BY created_at DESC`
	return r.list(query, approverID)
}

func (r *ApprovalRepo) list(query string, args ...any) ([]*entity.Approval, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		if err := rows.Scan(
			&a.ID, &a.DocumentID, &a.ApproverID, &a.RequesterID,
			&a.Decision, &a.CreatedAt, &a.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		approvals = append(approvals, &a)
	}
	return approvals, rows.Err()
}
