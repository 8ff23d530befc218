package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
)

func newDoc(status string) *entity.Document {
	return &entity.Document{
		ID:        "doc-1",
		Title:     "Contrato",
		Status:    status,
		CreatedBy: "user-1",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitForSignature
// ──────────────────────────────────────────────────────────────────────────────

func TestDocument_SubmitForSignature_DesdeCreated(t *testing.T) {
	doc := newDoc(entity.DocumentCreated)
	now := time.Now()

	require.NoError(t, doc.SubmitForSignature(now))
	assert.Equal(t, entity.DocumentPendingSignature, doc.Status)
	assert.Equal(t, now, doc.UpdatedAt)
}

func TestDocument_SubmitForSignature_EstadosInvalidos(t *testing.T) {
	for _, status := range []string{
		entity.DocumentPendingSignature,
		entity.DocumentSigned,
		entity.DocumentDeleted,
	} {
		doc := newDoc(status)
		err := doc.SubmitForSignature(time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidState, "estado origen: %s", status)
		assert.Equal(t, status, doc.Status, "el estado no debe cambiar tras un rechazo de transición")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkSigned
// ──────────────────────────────────────────────────────────────────────────────

func TestDocument_MarkSigned_DesdePendingSignature(t *testing.T) {
	doc := newDoc(entity.DocumentPendingSignature)
	now := time.Now()

	require.NoError(t, doc.MarkSigned("approver-1", "deadbeef", now))
	assert.Equal(t, entity.DocumentSigned, doc.Status)
	require.NotNil(t, doc.UpdatedBy)
	assert.Equal(t, "approver-1", *doc.UpdatedBy)
	require.NotNil(t, doc.Signature)
	assert.Equal(t, "deadbeef", *doc.Signature)
	assert.True(t, doc.Signed())
}

// El camino de solicitudes firma directo desde created.
func TestDocument_MarkSigned_DesdeCreated(t *testing.T) {
	doc := newDoc(entity.DocumentCreated)

	require.NoError(t, doc.MarkSigned("receiver-1", "cafe01", time.Now()))
	assert.Equal(t, entity.DocumentSigned, doc.Status)
}

// Un documento firmado nunca vuelve atrás: re-firmar es error.
func TestDocument_MarkSigned_Monotonia(t *testing.T) {
	doc := newDoc(entity.DocumentPendingSignature)
	require.NoError(t, doc.MarkSigned("a", "f1", time.Now()))

	err := doc.MarkSigned("b", "f2", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, "f1", *doc.Signature, "la firma original debe preservarse")
	assert.Equal(t, "a", *doc.UpdatedBy)
}

func TestDocument_MarkSigned_DesdeDeleted(t *testing.T) {
	doc := newDoc(entity.DocumentDeleted)
	assert.ErrorIs(t, doc.MarkSigned("a", "f1", time.Now()), domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Approval.Decide
// ──────────────────────────────────────────────────────────────────────────────

func TestApproval_Decide_SoloUnaVez(t *testing.T) {
	now := time.Now()
	a := &entity.Approval{
		ID:          "ap-1",
		DocumentID:  "doc-1",
		ApproverID:  "user-2",
		RequesterID: "user-1",
		Decision:    entity.ApprovalPending,
		CreatedAt:   now,
	}

	require.NoError(t, a.Decide(entity.ApprovalApproved, now))
	assert.Equal(t, entity.ApprovalApproved, a.Decision)
	require.NotNil(t, a.DecidedAt)

	// La segunda decisión es conflicto, sea cual sea.
	assert.ErrorIs(t, a.Decide(entity.ApprovalRejected, now), domain.ErrConflict)
	assert.Equal(t, entity.ApprovalApproved, a.Decision)
}

func TestApproval_Decide_DecisionInvalida(t *testing.T) {
	a := &entity.Approval{Decision: entity.ApprovalPending}
	assert.ErrorIs(t, a.Decide("maybe", time.Now()), domain.ErrInvalidInput)
	assert.Equal(t, entity.ApprovalPending, a.Decision)
	assert.Nil(t, a.DecidedAt)
}
