package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	ShopName     string
}

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BillMessage describes a bill email
type BillMessage struct {
	To           string
	CustomerName string
	BillNumber   string
	Total        string
	Attachment   *Attachment
}

// ErrNotConfigured is returned when no SMTP host is set
var ErrNotConfigured = errors.New("email is not configured")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// Configured reports whether an SMTP host is set
func (s *EmailService) Configured() bool {
	return s.config.SMTPHost != ""
}

// SendBill emails a bill with its PDF attached
func (s *EmailService) SendBill(msg *BillMessage) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if msg.To == "" {
		return errors.New("recipient address is required")
	}

	htmlContent, err := s.renderBillEmail(msg)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your bill %s - %s", msg.BillNumber, s.shopName())
	message, err := s.buildMessage(msg.To, subject, htmlContent, msg.Attachment)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	return s.sendEmail(msg.To, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage builds a multipart/mixed message with an HTML body and an
// optional attachment
func (s *EmailService) buildMessage(to, subject, htmlBody string, attachment *Attachment) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		mime.QEncoding.Encode("utf-8", s.config.FromName),
		s.config.FromEmail,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		writer.Boundary(),
	)

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if attachment != nil {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {contentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachment.Filename)},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(wrapBase64(attachment.Data))); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return append([]byte(headers), body.Bytes()...), nil
}

// wrapBase64 encodes data in 76-column lines
func wrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}

func (s *EmailService) shopName() string {
	if s.config.ShopName != "" {
		return s.config.ShopName
	}
	return s.config.FromName
}

// renderBillEmail renders the bill email template
func (s *EmailService) renderBillEmail(msg *BillMessage) (string, error) {
	tmpl, err := template.New("bill").Parse(billTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		CustomerName string
		BillNumber   string
		Total        string
		ShopName     string
	}{
		CustomerName: msg.CustomerName,
		BillNumber:   msg.BillNumber,
		Total:        msg.Total,
		ShopName:     s.shopName(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// billTemplate is the HTML template for bill emails
const billTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.ShopName}} - Bill {{.BillNumber}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
                    <tr>
                        <td style="background: #2563eb; padding: 32px 30px; text-align: center;">
                            <h1 style="color: #ffffff; margin: 0; font-size: 26px; font-weight: 600;">{{.ShopName}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 32px 30px;">
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 16px 0;">
                                Dear {{if .CustomerName}}{{.CustomerName}}{{else}}Customer{{end}},
                            </p>
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0 0 16px 0;">
                                Please find attached your bill <strong>{{.BillNumber}}</strong> for a total of <strong>{{.Total}}</strong>.
                            </p>
                            <p style="color: #4a5568; font-size: 16px; line-height: 1.6; margin: 0;">
                                Thank you for your purchase!
                            </p>
                        </td>
                    </tr>
                    <tr>
                        <td style="background-color: #f8fafc; padding: 20px 30px; text-align: center;">
                            <p style="color: #a0aec0; font-size: 12px; margin: 0;">&copy; {{.ShopName}}</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
