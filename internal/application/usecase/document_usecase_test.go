package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/docuflow/internal/application/dto"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/internal/domain"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

// fixture agrupa los fakes y el caso de uso de documentos.
type docFixture struct {
	users     *fakeUserRepo
	docs      *fakeDocRepo
	approvals *fakeApprovalRepo
	storage   *fakeStorage
	signer    *fakeSigner
	uc        *usecase.DocumentUseCase
}

func newDocFixture(users ...*entity.User) *docFixture {
	f := &docFixture{
		users:     newFakeUserRepo(users...),
		docs:      newFakeDocRepo(),
		approvals: newFakeApprovalRepo(),
		storage:   newFakeStorage(),
		signer:    &fakeSigner{},
	}
	tx := &fakeTx{docRepo: f.docs, approvalRepo: f.approvals, requestRepo: newFakeRequestRepo()}
	f.uc = usecase.NewDocumentUseCase(f.users, f.docs, f.approvals, tx, f.storage, f.signer, logger.Nop())
	return f
}

func testUser(id string) *entity.User {
	return &entity.User{
		ID:        id,
		Email:     id + "@test.local",
		FirstName: "Usuario",
		LastName:  id,
		Role:      entity.RoleEmployee,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentCreate_SubeArchivoYPersiste(t *testing.T) {
	f := newDocFixture(testUser("creator"))

	out, err := f.uc.Create(context.Background(), dto.CreateDocumentRequest{Title: "Contrato"},
		"creator", []byte("contenido del pdf"), "contrato.pdf", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentCreated, out.Status)
	assert.Equal(t, "creator", out.CreatedBy)
	require.NotNil(t, out.FileKey, "el documento debe quedar con locator del archivo")
	assert.Nil(t, out.Signature)

	stored, err := f.storage.Get(context.Background(), *out.FileKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("contenido del pdf"), stored)
}

// Si el storage falla no se persiste ningún documento.
func TestDocumentCreate_StorageFalla_NoPersiste(t *testing.T) {
	f := newDocFixture(testUser("creator"))
	f.storage.putErr = errors.New("s3 caído")

	_, err := f.uc.Create(context.Background(), dto.CreateDocumentRequest{Title: "Contrato"},
		"creator", []byte("x"), "a.pdf", "application/pdf")
	require.Error(t, err)

	docs, _ := f.docs.ListByCreator("creator")
	assert.Empty(t, docs, "no debe quedar documento persistido tras fallo de storage")
}

func TestDocumentCreate_CreadorInexistente(t *testing.T) {
	f := newDocFixture()
	_, err := f.uc.Create(context.Background(), dto.CreateDocumentRequest{Title: "T"},
		"fantasma", []byte("x"), "a.pdf", "application/pdf")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDocumentCreate_SinArchivo(t *testing.T) {
	f := newDocFixture(testUser("creator"))
	_, err := f.uc.Create(context.Background(), dto.CreateDocumentRequest{Title: "T"},
		"creator", nil, "a.pdf", "application/pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// SendForSignature
// ──────────────────────────────────────────────────────────────────────────────

func createDoc(t *testing.T, f *docFixture, creatorID string) *dto.DocumentResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateDocumentRequest{Title: "Contrato"},
		creatorID, []byte("bytes originales"), "contrato.pdf", "application/pdf")
	require.NoError(t, err)
	return out
}

func TestSendForSignature_TransicionaYCreaAprobacion(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")

	ap, err := f.uc.SendForSignature(context.Background(), doc.ID, "approver", "creator")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalPending, ap.Decision)
	assert.Equal(t, "approver", ap.ApproverID)
	assert.Equal(t, "creator", ap.RequesterID)

	got, _ := f.docs.GetByID(doc.ID)
	assert.Equal(t, entity.DocumentPendingSignature, got.Status)
}

// El aprobador no puede ser el mismo solicitante.
func TestSendForSignature_AutoAprobacion_EsConflicto(t *testing.T) {
	f := newDocFixture(testUser("creator"))
	doc := createDoc(t, f, "creator")

	_, err := f.uc.SendForSignature(context.Background(), doc.ID, "creator", "creator")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSendForSignature_DocumentoYaEnviado(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")

	_, err := f.uc.SendForSignature(context.Background(), doc.ID, "approver", "creator")
	require.NoError(t, err)

	// Reenviar desde pending_signature viola la máquina de estados.
	_, err = f.uc.SendForSignature(context.Background(), doc.ID, "approver", "creator")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSendForSignature_DocumentoInexistente(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	_, err := f.uc.SendForSignature(context.Background(), "no-existe", "approver", "creator")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// HandleApprovalDecision
// ──────────────────────────────────────────────────────────────────────────────

func sendForSignature(t *testing.T, f *docFixture, docID string) *dto.ApprovalResponse {
	t.Helper()
	ap, err := f.uc.SendForSignature(context.Background(), docID, "approver", "creator")
	require.NoError(t, err)
	return ap
}

func TestApprovalDecision_Aprobar_FirmaElDocumento(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	out, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, out.Decision)
	require.NotNil(t, out.DecidedAt)

	got, _ := f.docs.GetByID(doc.ID)
	assert.Equal(t, entity.DocumentSigned, got.Status)
	require.NotNil(t, got.Signature, "aprobar debe dejar firma calculada sobre los bytes")
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, "approver", *got.UpdatedBy, "el último modificador debe ser el aprobador")

	// La firma corresponde a los bytes reales del archivo.
	fileBytes, _ := f.storage.Get(context.Background(), *got.FileKey)
	ok, err := f.signer.Verify(fileBytes, *got.Signature)
	require.NoError(t, err)
	assert.True(t, ok)
}

// Rechazar registra la decisión y no toca el estado del documento.
func TestApprovalDecision_Rechazar_NoCambiaElDocumento(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	out, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalRejected)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, out.Decision)

	got, _ := f.docs.GetByID(doc.ID)
	assert.Equal(t, entity.DocumentPendingSignature, got.Status,
		"el rechazo no transiciona el documento")
	assert.Nil(t, got.Signature)
}

func TestApprovalDecision_DosVeces_EsConflicto(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalRejected)
	require.NoError(t, err)

	_, err = f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApprovalDecision_DecisionInvalida(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	_, err := f.uc.HandleApprovalDecision(context.Background(), "cualquiera", "tal-vez")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprovalDecision_AprobacionInexistente(t *testing.T) {
	f := newDocFixture(testUser("creator"))
	_, err := f.uc.HandleApprovalDecision(context.Background(), "no-existe", entity.ApprovalApproved)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Si el documento ya no está en pending_signature (p. ej. lo firmaron por
// el camino de solicitudes), aprobar es ErrInvalidState.
func TestApprovalDecision_DocumentoFueraDeEstado(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	// Forzar el documento a signed por fuera de la aprobación.
	stored, _ := f.docs.GetByID(doc.ID)
	require.NoError(t, stored.MarkSigned("otro", "cafe01", time.Now()))
	require.NoError(t, f.docs.Update(stored))

	_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, _ := f.approvals.GetByID(ap.ID)
	assert.Equal(t, entity.ApprovalPending, got.Decision,
		"la aprobación debe seguir pendiente si la transacción falla")
}

// Dos decisiones concurrentes sobre la misma aprobación se serializan por
// el row lock: la que llega segunda lee la decisión ya registrada y falla
// con conflicto en vez de pisarla.
func TestApprovalDecision_ConcurrenteNoPisaLaAprobada(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	// La transacción que aprueba commitea mientras el rechazo espera el lock.
	f.approvals.lockHook = func() {
		f.approvals.lockHook = nil
		_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
		require.NoError(t, err)
	}
	_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalRejected)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, _ := f.approvals.GetByID(ap.ID)
	assert.Equal(t, entity.ApprovalApproved, got.Decision,
		"el rechazo tardío no debe pisar la decisión aprobada")
	stored, _ := f.docs.GetByID(doc.ID)
	assert.Equal(t, entity.DocumentSigned, stored.Status)
	assert.NotNil(t, stored.Signature)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados de aprobaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestListApprovals_DelAprobador(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"), testUser("otro"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	mine, err := f.uc.ListApprovals(context.Background(), "approver")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ap.ID, mine[0].ID)
	assert.Equal(t, entity.ApprovalPending, mine[0].Decision)

	ajenas, err := f.uc.ListApprovals(context.Background(), "otro")
	require.NoError(t, err)
	assert.Empty(t, ajenas)

	_, err = f.uc.ListApprovals(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListDocumentApprovals_SoloElCreador(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)

	out, err := f.uc.ListDocumentApprovals(context.Background(), "creator", doc.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, ap.ID, out[0].ID)

	_, err = f.uc.ListDocumentApprovals(context.Background(), "approver", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un usuario distinto del creador no debe ver el documento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas, borrado y verificación
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByUserAndID_SoloElCreadorVe(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("otro"))
	doc := createDoc(t, f, "creator")

	out, err := f.uc.GetByUserAndID(context.Background(), "creator", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, out.ID)

	_, err = f.uc.GetByUserAndID(context.Background(), "otro", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un usuario distinto del creador no debe ver el documento")
}

func TestListByUser_SoloDocumentosPropios(t *testing.T) {
	f := newDocFixture(testUser("a"), testUser("b"))
	createDoc(t, f, "a")
	createDoc(t, f, "a")

	docsA, err := f.uc.ListByUser(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, docsA, 2)

	docsB, err := f.uc.ListByUser(context.Background(), "b")
	require.NoError(t, err)
	assert.Empty(t, docsB)
}

func TestDelete_EnCualquierEstado(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)
	_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
	require.NoError(t, err)

	// Borrar un documento firmado es válido y permanente.
	require.NoError(t, f.uc.Delete(context.Background(), doc.ID))

	_, err = f.uc.GetByUserAndID(context.Background(), "creator", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.uc.Delete(context.Background(), doc.ID), domain.ErrNotFound)
}

func TestVerifySignature_DetectaContenidoAlterado(t *testing.T) {
	f := newDocFixture(testUser("creator"), testUser("approver"))
	doc := createDoc(t, f, "creator")
	ap := sendForSignature(t, f, doc.ID)
	_, err := f.uc.HandleApprovalDecision(context.Background(), ap.ID, entity.ApprovalApproved)
	require.NoError(t, err)

	out, err := f.uc.VerifySignature(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, out.Valid)

	// Alterar los bytes en storage: la firma almacenada ya no corresponde.
	got, _ := f.docs.GetByID(doc.ID)
	f.storage.files[*got.FileKey] = []byte("contenido adulterado")

	_, err = f.uc.VerifySignature(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestVerifySignature_SinFirma(t *testing.T) {
	f := newDocFixture(testUser("creator"))
	doc := createDoc(t, f, "creator")

	_, err := f.uc.VerifySignature(context.Background(), doc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
