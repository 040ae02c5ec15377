package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Diseño logo", "Diseño logo"},
		{"  Diseño   logo  ", "Diseño logo"},
		{"", ""},
		{"   ", ""},
		{"VENTAS", "VENTAS"}, // case is preserved
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ventas", "ventas"},
		{"VENTAS", "ventas"},
		{"véntas", "ventas"},
		{"Diseño", "diseno"},
		{"Área Técnica", "area tecnica"},
		{"Comunicación", "comunicacion"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFoldName_IgnoresSpacing(t *testing.T) {
	if FoldName("  Recursos   Humanos ") != FoldName("recursos humanos") {
		t.Error("expected spacing differences to fold to the same key")
	}
}
