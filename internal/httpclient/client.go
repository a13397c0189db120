package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	kgzip "github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Client is the abstract HTTP contract of spec §6.
type Client interface {
	Execute(ctx context.Context, spec RequestSpec, opts ClientOptions) (CallResult, error)
}

// HTTPClient is the net/http-backed reference implementation. It is not
// safe for concurrent use across goroutines that mutate its jar
// concurrently; the parallel runner gives each worker its own instance
// (spec §5).
type HTTPClient struct {
	Jar *CookieJar
}

func New(jar *CookieJar) *HTTPClient {
	return &HTTPClient{Jar: jar}
}

func (c *HTTPClient) Execute(ctx context.Context, spec RequestSpec, opts ClientOptions) (CallResult, error) {
	transport, err := buildTransport(opts)
	if err != nil {
		return CallResult{}, err
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	result := CallResult{}
	currentURL := spec.URL
	maxHops := opts.MaxRedirects
	if maxHops <= 0 {
		maxHops = 1
	}
	if !opts.FollowLocation {
		maxHops = 1
	}

	for hop := 0; hop < maxHops; hop++ {
		req, err := buildRequest(ctx, spec, currentURL, c.Jar)
		if err != nil {
			return CallResult{}, err
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return CallResult{}, classifyTransportError(err)
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		end := time.Now()
		if readErr != nil {
			return CallResult{}, &Error{Kind: ErrHttpConnection, Msg: "httpclient: failed reading response body", Err: readErr}
		}

		if opts.Compressed {
			decompressed, decErr := decompress(body, resp.Header.Get("Content-Encoding"))
			if decErr != nil {
				return CallResult{}, decErr
			}
			body = decompressed
		}

		headers := collectHeaders(resp.Header)
		var setCookies []SetCookie
		for _, raw := range resp.Header.Values("Set-Cookie") {
			setCookies = append(setCookies, ParseSetCookie(raw))
		}
		if c.Jar != nil {
			if u, parseErr := url.Parse(currentURL); parseErr == nil {
				c.Jar.Store(u.Hostname(), setCookies)
			}
		}

		call := Call{
			Request: spec,
			Response: Response{
				Version:     versionOf(resp.Proto),
				Status:      resp.StatusCode,
				Headers:     headers,
				Body:        body,
				Duration:    end.Sub(start),
				URL:         currentURL,
				Certificate: certificateSummary(resp),
				PeerIP:      peerIP(resp),
				SetCookies:  setCookies,
			},
			Timings: Timings{Start: start, End: end},
		}
		result.Calls = append(result.Calls, call)

		loc := resp.Header.Get("Location")
		if !opts.FollowLocation || !isRedirectStatus(resp.StatusCode) || loc == "" {
			return result, nil
		}
		nextURL, err := resolveRedirect(currentURL, loc)
		if err != nil {
			return CallResult{}, &Error{Kind: ErrInvalidUrl, Msg: "httpclient: invalid redirect location", Err: err}
		}
		currentURL = nextURL
	}
	return CallResult{}, &Error{Kind: ErrTooManyRedirect, Msg: fmt.Sprintf("httpclient: exceeded %d redirects", maxHops)}
}

func isRedirectStatus(code int) bool {
	switch code {
	case 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}

func resolveRedirect(base, loc string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	locURL, err := url.Parse(loc)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(locURL).String(), nil
}

func versionOf(proto string) Version {
	switch proto {
	case "HTTP/1.0":
		return Version10
	case "HTTP/1.1":
		return Version11
	case "HTTP/2.0", "HTTP/2":
		return Version2
	case "HTTP/3.0", "HTTP/3":
		return Version3
	default:
		return VersionAny
	}
}

func collectHeaders(h http.Header) []Header {
	var out []Header
	for name, values := range h {
		for _, v := range values {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}

func certificateSummary(resp *http.Response) *CertificateSummary {
	if resp.TLS == nil || len(resp.TLS.PeerCertificates) == 0 {
		return nil
	}
	cert := resp.TLS.PeerCertificates[0]
	return &CertificateSummary{
		Subject:      cert.Subject.String(),
		Issuer:       cert.Issuer.String(),
		StartDate:    cert.NotBefore.UTC().Format(time.RFC3339),
		ExpireDate:   cert.NotAfter.UTC().Format(time.RFC3339),
		SerialNumber: cert.SerialNumber.String(),
	}
}

func peerIP(resp *http.Response) string {
	if resp.Request == nil || resp.Request.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(resp.Request.RemoteAddr)
	if err != nil {
		return resp.Request.RemoteAddr
	}
	return host
}

func buildTransport(opts ClientOptions) (*http.Transport, error) {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	transport := &http.Transport{
		DisableCompression: true, // httpclient decompresses explicitly via klauspost/compress
	}

	if opts.Network != NetworkAny {
		network := "tcp4"
		if opts.Network == NetworkIPv6 {
			network = "tcp6"
		}
		transport.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		}
	} else {
		transport.DialContext = dialer.DialContext
	}

	if len(opts.Resolve) > 0 || len(opts.ConnectTo) > 0 {
		transport.DialContext = resolveOverrideDialer(dialer, opts)
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, &Error{Kind: ErrCouldNotResolveProxy, Msg: "httpclient: invalid proxy url", Err: err}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: opts.Insecure}
	if opts.CACertPath != "" {
		pool := x509.NewCertPool()
		pem, err := os.ReadFile(opts.CACertPath)
		if err != nil {
			return nil, &Error{Kind: ErrSslCertificate, Msg: "httpclient: cannot read cacert", Err: err}
		}
		pool.AppendCertsFromPEM(pem)
		tlsConfig.RootCAs = pool
	}
	if opts.ClientCertPath != "" && opts.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(opts.ClientCertPath, opts.ClientKeyPath)
		if err != nil {
			return nil, &Error{Kind: ErrSslCertificate, Msg: "httpclient: cannot load client certificate", Err: err}
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	transport.TLSClientConfig = tlsConfig

	if opts.UnixSocket != "" {
		transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
			return (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext(ctx, "unix", opts.UnixSocket)
		}
	}

	return transport, nil
}

// resolveOverrideDialer applies `--resolve host:port:addr` and
// `--connect-to host:port:newhost:newport` style overrides by rewriting
// the dial address before delegating to dialer.
func resolveOverrideDialer(dialer *net.Dialer, opts ClientOptions) func(context.Context, string, string) (net.Conn, error) {
	overrides := make(map[string]string)
	for _, r := range opts.Resolve {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) == 3 {
			overrides[parts[0]+":"+parts[1]] = parts[2] + ":" + parts[1]
		}
	}
	for _, r := range opts.ConnectTo {
		parts := strings.SplitN(r, ":", 4)
		if len(parts) == 4 && parts[2] != "" {
			host, port := parts[0], parts[1]
			newHost, newPort := parts[2], parts[3]
			if newPort == "" {
				newPort = port
			}
			overrides[host+":"+port] = newHost + ":" + newPort
		}
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if override, ok := overrides[addr]; ok {
			addr = override
		}
		return dialer.DialContext(ctx, network, addr)
	}
}

func classifyTransportError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return &Error{Kind: ErrTimeout, Msg: "httpclient: request timed out", Err: err}
	case strings.Contains(msg, "no such host"):
		return &Error{Kind: ErrCouldNotResolveHost, Msg: "httpclient: could not resolve host", Err: err}
	case strings.Contains(msg, "certificate"):
		return &Error{Kind: ErrSslCertificate, Msg: "httpclient: tls certificate error", Err: err}
	case strings.Contains(msg, "connection refused"):
		return &Error{Kind: ErrFailToConnect, Msg: "httpclient: failed to connect", Err: err}
	default:
		return &Error{Kind: ErrHttpConnection, Msg: "httpclient: request failed", Err: err}
	}
}

func decompress(body []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "gzip":
		r, err := kgzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, &Error{Kind: ErrCouldNotUncompressResponse, Msg: "httpclient: invalid gzip body", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &Error{Kind: ErrCouldNotUncompressResponse, Msg: "httpclient: failed to decompress gzip body", Err: err}
		}
		return out, nil
	case "zstd":
		r, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, &Error{Kind: ErrCouldNotUncompressResponse, Msg: "httpclient: invalid zstd body", Err: err}
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, &Error{Kind: ErrCouldNotUncompressResponse, Msg: "httpclient: failed to decompress zstd body", Err: err}
		}
		return out, nil
	default:
		return nil, &Error{Kind: ErrUnsupportedContentEncoding, Msg: fmt.Sprintf("httpclient: unsupported content-encoding %q", encoding)}
	}
}

func buildRequest(ctx context.Context, spec RequestSpec, targetURL string, jar *CookieJar) (*http.Request, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidUrl, Msg: "httpclient: invalid url", Err: err}
	}
	if len(spec.QueryStringParams) > 0 {
		q := u.Query()
		for _, p := range spec.QueryStringParams {
			q.Add(p.Name, p.Value)
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	contentType := spec.ImplicitContentType

	switch {
	case len(spec.MultipartParts) > 0:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for _, part := range spec.MultipartParts {
			if part.FilePath != "" {
				data, readErr := os.ReadFile(part.FilePath)
				if readErr != nil {
					return nil, &Error{Kind: ErrHttpConnection, Msg: "httpclient: cannot read multipart file", Err: readErr}
				}
				ct := part.ContentType
				if ct == "" {
					ct = InferContentType(part.FilePath)
				}
				quote := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
				h := make(textproto.MIMEHeader)
				h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quote.Replace(part.Name), quote.Replace(part.FileName)))
				h.Set("Content-Type", ct)
				fw, cerr := w.CreatePart(h)
				if cerr != nil {
					return nil, cerr
				}
				fw.Write(data)
			} else {
				fw, cerr := w.CreateFormField(part.Name)
				if cerr != nil {
					return nil, cerr
				}
				fw.Write(part.Value)
			}
		}
		w.Close()
		bodyReader = buf
		contentType = w.FormDataContentType()
	case len(spec.FormParams) > 0:
		form := url.Values{}
		for _, p := range spec.FormParams {
			form.Add(p.Name, p.Value)
		}
		bodyReader = strings.NewReader(form.Encode())
		if contentType == "" {
			contentType = "application/x-www-form-urlencoded"
		}
	case spec.Body.Kind == BodyText:
		bodyReader = strings.NewReader(spec.Body.Text)
	case spec.Body.Kind == BodyBinary:
		bodyReader = bytes.NewReader(spec.Body.Binary)
	case spec.Body.Kind == BodyFileRef:
		data, readErr := os.ReadFile(spec.Body.FilePath)
		if readErr != nil {
			return nil, &Error{Kind: ErrHttpConnection, Msg: "httpclient: cannot read body file", Err: readErr}
		}
		bodyReader = bytes.NewReader(data)
		if contentType == "" {
			contentType = InferContentType(spec.Body.FilePath)
		}
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u.String(), bodyReader)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidUrl, Msg: "httpclient: cannot build request", Err: err}
	}
	for _, h := range spec.Headers {
		req.Header.Add(h.Name, h.Value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	if jar != nil {
		for _, ck := range jar.CookiesFor(u.Hostname(), u.Path) {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	for _, ck := range spec.Cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	return req, nil
}
