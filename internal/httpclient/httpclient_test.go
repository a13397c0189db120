package httpclient

import "testing"

func TestCookieJarDomainAndReplace(t *testing.T) {
	jar := NewCookieJar()
	jar.Store("example.org", []SetCookie{
		{Name: "session", Value: "abc", Domain: "example.org", Path: "/"},
	})
	cookies := jar.CookiesFor("example.org", "/api")
	if len(cookies) != 1 || cookies[0].Value != "abc" {
		t.Fatalf("expected one session cookie, got %+v", cookies)
	}

	// Overwriting the same name/domain/path replaces, not duplicates.
	jar.Store("example.org", []SetCookie{
		{Name: "session", Value: "def", Domain: "example.org", Path: "/"},
	})
	cookies = jar.CookiesFor("example.org", "/api")
	if len(cookies) != 1 || cookies[0].Value != "def" {
		t.Fatalf("expected the cookie to be replaced, got %+v", cookies)
	}
}

func TestCookieJarPathScoping(t *testing.T) {
	jar := NewCookieJar()
	jar.Store("example.org", []SetCookie{
		{Name: "scoped", Value: "x", Domain: "example.org", Path: "/admin"},
	})
	if cookies := jar.CookiesFor("example.org", "/public"); len(cookies) != 0 {
		t.Fatalf("expected no cookies outside the scoped path, got %+v", cookies)
	}
	if cookies := jar.CookiesFor("example.org", "/admin/users"); len(cookies) != 1 {
		t.Fatalf("expected the scoped cookie under /admin, got %+v", cookies)
	}
}

func TestParseSetCookie(t *testing.T) {
	c := ParseSetCookie("session=abc123; Domain=example.org; Path=/; HttpOnly; Secure")
	if c.Name != "session" || c.Value != "abc123" || c.Domain != "example.org" || !c.Secure || !c.HTTPOnly {
		t.Fatalf("unexpected parse result: %+v", c)
	}
}

func TestInferContentType(t *testing.T) {
	if ct := InferContentType("payload.json"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
	if ct := InferContentType("file.unknownext"); ct != "application/octet-stream" {
		t.Fatalf("expected octet-stream fallback, got %q", ct)
	}
}

func TestVersionString(t *testing.T) {
	if Version11.String() != "HTTP/1.1" {
		t.Fatalf("expected HTTP/1.1, got %q", Version11.String())
	}
	if VersionAny.String() != "HTTP" {
		t.Fatalf("expected wildcard HTTP, got %q", VersionAny.String())
	}
}
