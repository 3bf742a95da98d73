package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAccessAndRefreshCookies(t *testing.T) {
	cases := []struct {
		cookie *http.Cookie
		name   string
		maxAge int
	}{
		{AccessCookie("a.b.c"), "accessToken", 3600},
		{RefreshCookie("d.e.f"), "refreshToken", 604800},
	}
	for _, tc := range cases {
		c := tc.cookie
		if c.Name != tc.name || c.MaxAge != tc.maxAge {
			t.Fatalf("%s: unexpected name/max-age %s/%d", tc.name, c.Name, c.MaxAge)
		}
		if c.Path != "/api" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode {
			t.Fatalf("%s: unexpected attributes %+v", tc.name, c)
		}
	}
}

func TestClear_WritesMaxAgeZero(t *testing.T) {
	rec := httptest.NewRecorder()
	for _, c := range Clear() {
		http.SetCookie(rec, c)
	}

	headers := rec.Header().Values("Set-Cookie")
	if len(headers) != 2 {
		t.Fatalf("expected 2 Set-Cookie headers, got %v", headers)
	}
	for i, name := range []string{"accessToken=;", "refreshToken=;"} {
		h := headers[i]
		if !strings.HasPrefix(h, name) {
			t.Fatalf("expected empty %s cookie, got %q", name, h)
		}
		for _, attr := range []string{"Path=/api", "Max-Age=0", "HttpOnly", "Secure", "SameSite=None"} {
			if !strings.Contains(h, attr) {
				t.Fatalf("cookie %q missing %s", h, attr)
			}
		}
	}
}

func TestTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "acc"})
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "ref"})

	access, refresh := Tokens(req)
	if access != "acc" || refresh != "ref" {
		t.Fatalf("unexpected tokens %q %q", access, refresh)
	}

	access, refresh = Tokens(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if access != "" || refresh != "" {
		t.Fatalf("missing cookies should read empty, got %q %q", access, refresh)
	}
}
