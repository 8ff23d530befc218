// Notificador de email sobre SMTP. Los mensajes se renderizan con
// html/template; si SMTP no está configurado solo se registran en el log
// (mismo contrato: el caller nunca depende del resultado del envío).
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/pkg/config"
	"github.com/tu-usuario/docuflow/pkg/logger"
)

var _ usecase.Notifier = (*Notifier)(nil)

// Notifier envía notificaciones de documentos por email.
type Notifier struct {
	cfg       config.SMTPConfig
	log       *logger.Logger
	templates map[string]*template.Template
}

// New construye el notificador y precarga las plantillas.
func New(cfg config.SMTPConfig, log *logger.Logger) *Notifier {
	n := &Notifier{
		cfg:       cfg,
		log:       log.Component("email"),
		templates: make(map[string]*template.Template),
	}
	n.loadTemplates()
	return n
}

// templateData datos disponibles para todas las plantillas.
type templateData struct {
	RecipientName string
	ActorName     string
	DocumentTitle string
	DocumentState string
	RequestStatus string
	Reason        string
}

// Notify renderiza y envía el email correspondiente al tipo de
// notificación. Devuelve error para que el caller lo registre; el caller
// decide que nunca se propague.
func (n *Notifier) Notify(ctx context.Context, notif usecase.Notification) error {
	if notif.Recipient == nil {
		return fmt.Errorf("email: notificación sin destinatario")
	}

	subject, tplName := subjectAndTemplate(notif.Kind)
	if tplName == "" {
		return fmt.Errorf("email: tipo de notificación desconocido: %s", notif.Kind)
	}

	data := templateData{
		RecipientName: notif.Recipient.FullName(),
		Reason:        notif.Reason,
	}
	if notif.Actor != nil {
		data.ActorName = notif.Actor.FullName()
	}
	if notif.Document != nil {
		data.DocumentTitle = notif.Document.Title
		data.DocumentState = notif.Document.Status
	}
	if notif.Request != nil {
		data.RequestStatus = notif.Request.Status
	}

	var body bytes.Buffer
	if err := n.templates[tplName].Execute(&body, data); err != nil {
		return fmt.Errorf("email: renderizar plantilla %s: %w", tplName, err)
	}

	if !n.cfg.Configured() {
		// Sin SMTP: registrar y dar por enviado (entornos de desarrollo).
		n.log.Info().
			Str("to", notif.Recipient.Email).
			Str("subject", subject).
			Msg("SMTP no configurado, email solo registrado")
		return nil
	}

	return n.send(ctx, notif.Recipient.Email, subject, body.String())
}

func subjectAndTemplate(kind string) (subject, tplName string) {
	switch kind {
	case usecase.NotificationSignRequest:
		return "New Document Request", "sign_request"
	case usecase.NotificationDocumentApproved:
		return "Document Approved", "document_approved"
	case usecase.NotificationDocumentRejected:
		return "Document Rejected", "document_rejected"
	}
	return "", ""
}

// send entrega el mensaje por SMTP con STARTTLS cuando está habilitado.
func (n *Notifier) send(ctx context.Context, to, subject, htmlBody string) error {
	var msg strings.Builder
	from := n.cfg.From
	if n.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.From)
	}
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", n.cfg.Addr())
	if err != nil {
		return fmt.Errorf("email: conectar SMTP: %w", err)
	}
	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: cliente SMTP: %w", err)
	}
	defer client.Close()

	if n.cfg.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
				return fmt.Errorf("email: STARTTLS: %w", err)
			}
		}
	}
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("email: auth SMTP: %w", err)
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("email: MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("email: RCPT TO: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		w.Close()
		return fmt.Errorf("email: escribir mensaje: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: cerrar mensaje: %w", err)
	}
	if err := client.Quit(); err != nil {
		n.log.Debug().Err(err).Msg("QUIT SMTP falló, mensaje ya entregado")
	}
	n.log.Info().Str("to", to).Str("subject", subject).Msg("email enviado")
	return nil
}

// loadTemplates carga las plantillas de los tres tipos de notificación.
func (n *Notifier) loadTemplates() {
	n.templates["sign_request"] = template.Must(template.New("sign_request").Parse(`
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #f8f9fa; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
  .content { background-color: #ffffff; padding: 20px; border: 1px solid #e9ecef; border-radius: 5px; }
  .footer { margin-top: 20px; padding-top: 20px; border-top: 1px solid #e9ecef; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="header"><h2>New Document Request</h2></div>
  <div class="content">
    <p>Hello {{.RecipientName}},</p>
    <p>You have received a new document request from <strong>{{.ActorName}}</strong>.</p>
    <ul>
      <li><strong>Document:</strong> {{.DocumentTitle}}</li>
      <li><strong>Document Status:</strong> {{.DocumentState}}</li>
      <li><strong>Request Status:</strong> {{.RequestStatus}}</li>
    </ul>
    <p>Please review this document and take appropriate action.</p>
  </div>
  <div class="footer"><p>This is an automated message from the Document Management System.</p></div>
</body>
</html>`))

	n.templates["document_approved"] = template.Must(template.New("document_approved").Parse(`
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #d4edda; padding: 20px; border-radius: 5px; margin-bottom: 20px; border: 1px solid #c3e6cb; }
  .content { background-color: #ffffff; padding: 20px; border: 1px solid #e9ecef; border-radius: 5px; }
  .footer { margin-top: 20px; padding-top: 20px; border-top: 1px solid #e9ecef; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="header"><h2>Document Approved</h2></div>
  <div class="content">
    <p>Hello {{.RecipientName}},</p>
    <p>Your document has been signed by <strong>{{.ActorName}}</strong>.</p>
    <ul>
      <li><strong>Document:</strong> {{.DocumentTitle}}</li>
      <li><strong>Document Status:</strong> {{.DocumentState}}</li>
    </ul>
  </div>
  <div class="footer"><p>This is an automated message from the Document Management System.</p></div>
</body>
</html>`))

	n.templates["document_rejected"] = template.Must(template.New("document_rejected").Parse(`
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background-color: #f8d7da; padding: 20px; border-radius: 5px; margin-bottom: 20px; border: 1px solid #f5c6cb; }
  .content { background-color: #ffffff; padding: 20px; border: 1px solid #e9ecef; border-radius: 5px; }
  .footer { margin-top: 20px; padding-top: 20px; border-top: 1px solid #e9ecef; font-size: 12px; color: #6c757d; }
</style>
</head>
<body>
  <div class="header"><h2>Document Rejected</h2></div>
  <div class="content">
    <p>Hello {{.RecipientName}},</p>
    <p>Your sign request was declined by <strong>{{.ActorName}}</strong>.</p>
    <ul>
      <li><strong>Document:</strong> {{.DocumentTitle}}</li>
      {{if .Reason}}<li><strong>Reason:</strong> {{.Reason}}</li>{{end}}
    </ul>
  </div>
  <div class="footer"><p>This is an automated message from the Document Management System.</p></div>
</body>
</html>`))
}
