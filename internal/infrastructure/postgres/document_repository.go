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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, title, status, created_by, updated_by, file_key, signature, created_at, updated_at`

// Create persiste un nuevo documento.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Title, doc.Status, doc.CreatedBy, doc.UpdatedBy,
		doc.FileKey, doc.Signature, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene un documento tomando un row lock. Solo tiene
// efecto dentro de una transacción (TxRunner).
func (r *DocumentRepo) GetByIDForUpdate(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// GetByCreatorAndID obtiene un documento acotado a su creador.
func (r *DocumentRepo) GetByCreatorAndID(creatorID, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND created_by = $2`
	return r.scanOne(query, id, creatorID)
}

// ListByCreator lista los documentos creados por un usuario.
func (r *DocumentRepo) ListByCreator(creatorID string) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE created_by = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Status, &d.CreatedBy, &d.UpdatedBy,
			&d.FileKey, &d.Signature, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// Update actualiza un documento.
func (r *DocumentRepo) Update(doc *entity.Document) error {
	query := `
		UPDATE documents
		SET title = $2, status = $3, updated_by = $4, file_key = $5,
		    signature = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Title, doc.Status, doc.UpdatedBy, doc.FileKey,
		doc.Signature, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra un documento de forma permanente.
func (r *DocumentRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) scanOne(query string, args ...any) (*entity.Document, error) {
	var d entity.Document
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&d.ID, &d.Title, &d.Status, &d.CreatedBy, &d.UpdatedBy,
		&d.FileKey, &d.Signature, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}
