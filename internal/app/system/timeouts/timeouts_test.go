package timeouts

import (
	"testing"
	"time"
)

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	Reset()
	defer Reset()

	Configure(Config{Short: 7 * time.Second})

	got := Current()
	if got.Short != 7*time.Second {
		t.Errorf("Short = %v, want 7s", got.Short)
	}
	if got.Medium != DefaultMedium {
		t.Errorf("Medium = %v, want default %v", got.Medium, DefaultMedium)
	}
}

func TestConfigureFromEnv(t *testing.T) {
	Reset()
	defer Reset()

	t.Setenv("WORKHUB_TIMEOUT_LONG", "45s")
	t.Setenv("WORKHUB_TIMEOUT_PING", "not-a-duration")
	t.Setenv("WORKHUB_TIMEOUT_SHORT", "-1s")

	if n := ConfigureFromEnv(); n != 1 {
		t.Errorf("configured = %d, want 1", n)
	}
	if Long() != 45*time.Second {
		t.Errorf("Long = %v, want 45s", Long())
	}
	if Ping() != DefaultPing {
		t.Errorf("Ping = %v, want default", Ping())
	}
	if Short() != DefaultShort {
		t.Errorf("Short = %v, want default", Short())
	}
}
