package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOptions_Production(t *testing.T) {
	c := Options(true, 0)

	if c.Name != "token" {
		t.Errorf("expected cookie name token, got %q", c.Name)
	}
	if !c.Secure {
		t.Error("production cookie must be Secure")
	}
	if c.SameSite != http.SameSiteNoneMode {
		t.Errorf("production cookie must be SameSite=None, got %v", c.SameSite)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if c.MaxAge != 24*60*60 {
		t.Errorf("expected 24h default max age, got %d", c.MaxAge)
	}
	if c.Path != "/" {
		t.Errorf("expected path /, got %q", c.Path)
	}
}

func TestOptions_MaxAgeTracksSessionTTL(t *testing.T) {
	c := Options(false, 2*time.Hour)

	// A shorter-lived token must not leave a longer-lived cookie behind.
	if c.MaxAge != 2*60*60 {
		t.Errorf("expected cookie age to match the session TTL, got %d", c.MaxAge)
	}
}

func TestOptions_Development(t *testing.T) {
	c := Options(false, 0)

	if c.Secure {
		t.Error("development cookie must not be Secure")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("development cookie must be SameSite=Lax, got %v", c.SameSite)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
}

func TestSet(t *testing.T) {
	w := httptest.NewRecorder()
	Set(w, "jwt-value", false, time.Hour)

	res := w.Result()
	got := res.Cookies()
	if len(got) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(got))
	}
	if got[0].Name != Name || got[0].Value != "jwt-value" {
		t.Errorf("unexpected cookie %s=%s", got[0].Name, got[0].Value)
	}
	if got[0].MaxAge <= 0 {
		t.Errorf("expected positive max age, got %d", got[0].MaxAge)
	}
}

func TestClear_CoversBothProfiles(t *testing.T) {
	w := httptest.NewRecorder()
	Clear(w)

	got := w.Result().Cookies()
	if len(got) != 2 {
		t.Fatalf("expected 2 expiring cookies, got %d", len(got))
	}

	sawSecure, sawLax := false, false
	for _, c := range got {
		if c.Name != Name {
			t.Errorf("unexpected cookie name %q", c.Name)
		}
		if c.MaxAge != -1 {
			t.Errorf("expected MaxAge -1, got %d", c.MaxAge)
		}
		if c.Secure && c.SameSite == http.SameSiteNoneMode {
			sawSecure = true
		}
		if !c.Secure && c.SameSite == http.SameSiteLaxMode {
			sawLax = true
		}
	}
	if !sawSecure || !sawLax {
		t.Error("clear must expire the cookie under both attribute profiles")
	}
}
