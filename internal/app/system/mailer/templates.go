// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// PasswordResetData holds data for the password reset email.
type PasswordResetData struct {
	SiteName   string
	Nombre     string
	ResetLink  string
	ExpiresIn  string // e.g., "1 hora"
	FirstLogin bool   // true when the mail is sent by the first-login gate
}

// BuildPasswordResetEmail creates the reset email with both HTML and text bodies.
func BuildPasswordResetEmail(data PasswordResetData) Email {
	subject := fmt.Sprintf("Restablece tu contraseña de %s", data.SiteName)
	if data.FirstLogin {
		subject = fmt.Sprintf("Bienvenido a %s: crea tu contraseña", data.SiteName)
	}
	return Email{
		To:       "", // Set by caller
		Subject:  subject,
		TextBody: buildPasswordResetText(data),
		HTMLBody: buildPasswordResetHTML(data),
	}
}

func buildPasswordResetText(data PasswordResetData) string {
	var buf bytes.Buffer
	if data.Nombre != "" {
		buf.WriteString(fmt.Sprintf("Hola %s,\n\n", data.Nombre))
	}
	if data.FirstLogin {
		buf.WriteString("Es tu primer inicio de sesión. Para continuar, crea una contraseña nueva:\n")
	} else {
		buf.WriteString("Recibimos una solicitud para restablecer tu contraseña:\n")
	}
	buf.WriteString(data.ResetLink + "\n\n")
	buf.WriteString(fmt.Sprintf("El enlace vence en %s.\n\n", data.ExpiresIn))
	buf.WriteString("Si no solicitaste este cambio, puedes ignorar este mensaje.\n")
	return buf.String()
}

var resetTmpl = template.Must(template.New("reset").Parse(passwordResetHTMLTemplate))

func buildPasswordResetHTML(data PasswordResetData) string {
	var buf bytes.Buffer
	_ = resetTmpl.Execute(&buf, data)
	return buf.String()
}

const passwordResetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              {{if .Nombre}}<p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hola {{.Nombre}},</p>{{end}}
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                {{if .FirstLogin}}Es tu primer inicio de sesión. Para continuar, crea una contraseña nueva.{{else}}Recibimos una solicitud para restablecer tu contraseña.{{end}}
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.ResetLink}}" style="display: inline-block; padding: 14px 32px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 16px; border-radius: 6px;">
                      Crear contraseña
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">
                El enlace vence en {{.ExpiresIn}}.
              </p>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">
                Si no solicitaste este cambio, puedes ignorar este mensaje.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
