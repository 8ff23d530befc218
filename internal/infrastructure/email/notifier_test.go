package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/internal/domain/entity"
	"github.com/tu-usuario/docuflow/internal/infrastructure/email"
	"github.com/tu-usuario/docuflow/pkg/config"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

func baseNotification(kind string) usecase.Notification {
	return usecase.Notification{
		Kind:      kind,
		Recipient: &entity.User{ID: "u1", Email: "dest@test.local", FirstName: "Ana", LastName: "Pérez"},
		Actor:     &entity.User{ID: "u2", Email: "actor@test.local", FirstName: "Luis", LastName: "Gómez"},
		Document:  &entity.Document{ID: "d1", Title: "Contrato", Status: entity.DocumentCreated},
		Request:   &entity.SignRequest{ID: "r1", Status: entity.RequestStatusPending},
	}
}

// Sin SMTP configurado el notificador solo registra: nunca es error.
func TestNotify_SinSMTP_SoloRegistra(t *testing.T) {
	n := email.New(config.SMTPConfig{}, logger.Nop())

	for _, kind := range []string{
		usecase.NotificationSignRequest,
		usecase.NotificationDocumentApproved,
		usecase.NotificationDocumentRejected,
	} {
		err := n.Notify(context.Background(), baseNotification(kind))
		require.NoError(t, err, "kind %s", kind)
	}
}

func TestNotify_TipoDesconocido_EsError(t *testing.T) {
	n := email.New(config.SMTPConfig{}, logger.Nop())
	err := n.Notify(context.Background(), baseNotification("telegrama"))
	assert.Error(t, err)
}

func TestNotify_SinDestinatario_EsError(t *testing.T) {
	n := email.New(config.SMTPConfig{}, logger.Nop())
	notif := baseNotification(usecase.NotificationSignRequest)
	notif.Recipient = nil
	assert.Error(t, n.Notify(context.Background(), notif))
}

// El motivo del rechazo llega a la plantilla sin romper el render.
func TestNotify_RechazoConMotivo(t *testing.T) {
	n := email.New(config.SMTPConfig{}, logger.Nop())
	notif := baseNotification(usecase.NotificationDocumentRejected)
	notif.Reason = "documento incompleto"
	require.NoError(t, n.Notify(context.Background(), notif))
}
