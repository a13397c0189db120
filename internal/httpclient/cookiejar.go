package httpclient

import (
	"strconv"
	"strings"
	"time"
)

// SetCookie is one parsed Set-Cookie response header.
type SetCookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	HasExpires bool
	MaxAge   int
	HasMaxAge bool
	Secure   bool
	HTTPOnly bool
	SameSite string
}

// CookieJar is a path/domain/expiry-aware jar, one per file run (spec §5:
// "cookie jar is per-file, not shared across workers"), adapted from the
// flat name->value map a minimal client would otherwise use.
type CookieJar struct {
	entries []jarEntry
}

type jarEntry struct {
	cookie SetCookie
	host   string
}

func NewCookieJar() *CookieJar {
	return &CookieJar{}
}

// Store records cookies returned for a request made to host.
func (j *CookieJar) Store(host string, cookies []SetCookie) {
	now := time.Now()
	for _, c := range cookies {
		if c.Domain == "" {
			c.Domain = host
		}
		if c.Path == "" {
			c.Path = "/"
		}
		if c.HasExpires && c.Expires.Before(now) {
			j.remove(c.Name, c.Domain, c.Path)
			continue
		}
		if c.HasMaxAge && c.MaxAge <= 0 {
			j.remove(c.Name, c.Domain, c.Path)
			continue
		}
		j.remove(c.Name, c.Domain, c.Path)
		j.entries = append(j.entries, jarEntry{cookie: c, host: host})
	}
}

func (j *CookieJar) remove(name, domain, path string) {
	out := j.entries[:0]
	for _, e := range j.entries {
		if e.cookie.Name == name && e.cookie.Domain == domain && e.cookie.Path == path {
			continue
		}
		out = append(out, e)
	}
	j.entries = out
}

// CookiesFor returns the cookies applicable to a request against host/path.
func (j *CookieJar) CookiesFor(host, path string) []SetCookie {
	now := time.Now()
	var out []SetCookie
	for _, e := range j.entries {
		if e.cookie.HasExpires && e.cookie.Expires.Before(now) {
			continue
		}
		if !domainMatches(host, e.cookie.Domain) {
			continue
		}
		if !pathMatches(path, e.cookie.Path) {
			continue
		}
		out = append(out, e.cookie)
	}
	return out
}

// All returns every cookie currently stored, used by `cookie PATH[ATTR]`
// queries that address the jar directly rather than a response.
func (j *CookieJar) All() []SetCookie {
	out := make([]SetCookie, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.cookie
	}
	return out
}

func domainMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatches(reqPath, cookiePath string) bool {
	if cookiePath == "" || cookiePath == "/" {
		return true
	}
	if reqPath == cookiePath {
		return true
	}
	return strings.HasPrefix(reqPath, cookiePath) &&
		(strings.HasSuffix(cookiePath, "/") || strings.HasPrefix(reqPath[len(cookiePath):], "/"))
}

// ParseSetCookie parses one Set-Cookie header value.
func ParseSetCookie(header string) SetCookie {
	var c SetCookie
	parts := strings.Split(header, ";")
	if len(parts) == 0 {
		return c
	}
	if eq := strings.IndexByte(parts[0], '='); eq >= 0 {
		c.Name = strings.TrimSpace(parts[0][:eq])
		c.Value = strings.TrimSpace(parts[0][eq+1:])
	}
	for _, attr := range parts[1:] {
		attr = strings.TrimSpace(attr)
		name := attr
		value := ""
		if eq := strings.IndexByte(attr, '='); eq >= 0 {
			name = attr[:eq]
			value = attr[eq+1:]
		}
		switch strings.ToLower(name) {
		case "domain":
			c.Domain = value
		case "path":
			c.Path = value
		case "secure":
			c.Secure = true
		case "httponly":
			c.HTTPOnly = true
		case "samesite":
			c.SameSite = value
		case "expires":
			if t, err := time.Parse(time.RFC1123, value); err == nil {
				c.Expires = t
				c.HasExpires = true
			}
		case "max-age":
			if n, err := strconv.Atoi(value); err == nil {
				c.MaxAge = n
				c.HasMaxAge = true
			}
		}
	}
	return c
}
