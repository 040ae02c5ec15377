package mailer

import (
	"strings"
	"testing"
)

func TestBuildPasswordResetEmail(t *testing.T) {
	tests := []struct {
		name        string
		data        PasswordResetData
		wantSubject string
		wantText    string
	}{
		{
			name:        "reset",
			data:        PasswordResetData{SiteName: "WorkHub", ResetLink: "http://x/reset?token=abc", ExpiresIn: "1 hora"},
			wantSubject: "Restablece tu contraseña de WorkHub",
			wantText:    "Recibimos una solicitud",
		},
		{
			name:        "first login",
			data:        PasswordResetData{SiteName: "WorkHub", Nombre: "Ana", ResetLink: "http://x/reset?token=abc", ExpiresIn: "1 hora", FirstLogin: true},
			wantSubject: "Bienvenido a WorkHub: crea tu contraseña",
			wantText:    "Hola Ana,",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := BuildPasswordResetEmail(tc.data)
			if m.Subject != tc.wantSubject {
				t.Errorf("Subject: got %q", m.Subject)
			}
			if !strings.Contains(m.TextBody, tc.wantText) || !strings.Contains(m.TextBody, tc.data.ResetLink) {
				t.Errorf("TextBody missing content: %q", m.TextBody)
			}
			if !strings.Contains(m.HTMLBody, `href="http://x/reset?token=abc"`) {
				t.Errorf("HTMLBody missing link: %q", m.HTMLBody)
			}
		})
	}
}

func TestLogSender(t *testing.T) {
	if err := (LogSender{}).Send(Email{To: "a@example.com"}); err != nil {
		t.Fatalf("LogSender.Send: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Send(Email{To: "a@example.com", Subject: "uno"})
	_ = r.Send(Email{To: "b@example.com", Subject: "dos"})

	sent := r.Sent()
	if len(sent) != 2 || sent[1].Subject != "dos" {
		t.Fatalf("Sent = %+v", sent)
	}
	sent[0].To = "changed"
	if r.Sent()[0].To != "a@example.com" {
		t.Error("Sent should return a copy")
	}
}
