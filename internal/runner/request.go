package runner

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/variables"
)

// buildRequest renders req's templates against vs into a fully-concrete
// httpclient.RequestSpec (spec §4.8 step 2). contextDir resolves `file,`
// references and relative [MultipartFormData] file parts.
func buildRequest(req *ast.Request, vs *variables.VariableSet, contextDir string) (httpclient.RequestSpec, error) {
	method, err := template.Render(req.Method, vs)
	if err != nil {
		return httpclient.RequestSpec{}, err
	}
	url, err := template.Render(req.URL, vs)
	if err != nil {
		return httpclient.RequestSpec{}, err
	}

	spec := httpclient.RequestSpec{Method: strings.ToUpper(method), URL: url}

	for _, h := range req.Headers {
		name, err := template.Render(h.Name, vs)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		val, err := template.Render(h.Value, vs)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		spec.Headers = append(spec.Headers, httpclient.Header{Name: name, Value: val})
	}

	if spec.QueryStringParams, err = renderKVs(req.QueryStringParams, vs); err != nil {
		return httpclient.RequestSpec{}, err
	}
	if spec.FormParams, err = renderKVs(req.FormParams, vs); err != nil {
		return httpclient.RequestSpec{}, err
	}
	if spec.Cookies, err = renderKVs(req.Cookies, vs); err != nil {
		return httpclient.RequestSpec{}, err
	}

	if req.BasicAuth != nil {
		user, err := template.Render(req.BasicAuth.Username, vs)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		pass, err := template.Render(req.BasicAuth.Password, vs)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		spec.Headers = append(spec.Headers, httpclient.Header{Name: "Authorization", Value: basicAuthHeader(user, pass)})
	}

	for _, part := range req.MultipartForm {
		p, err := buildPart(part, vs, contextDir)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		spec.MultipartParts = append(spec.MultipartParts, p)
	}

	if req.Body != nil {
		body, contentType, err := buildBody(req.Body, vs, contextDir)
		if err != nil {
			return httpclient.RequestSpec{}, err
		}
		spec.Body = body
		spec.ImplicitContentType = contentType
	}

	return spec, nil
}

func renderKVs(kvs []ast.KV, vs *variables.VariableSet) ([]httpclient.Header, error) {
	out := make([]httpclient.Header, 0, len(kvs))
	for _, kv := range kvs {
		name, err := template.Render(kv.Name, vs)
		if err != nil {
			return nil, err
		}
		val, err := template.Render(kv.Value, vs)
		if err != nil {
			return nil, err
		}
		out = append(out, httpclient.Header{Name: name, Value: val})
	}
	return out, nil
}

func buildPart(f ast.MultipartField, vs *variables.VariableSet, contextDir string) (httpclient.Part, error) {
	name, err := template.Render(f.Name, vs)
	if err != nil {
		return httpclient.Part{}, err
	}
	part := httpclient.Part{Name: name}
	if f.ContentType != nil {
		if part.ContentType, err = template.Render(f.ContentType, vs); err != nil {
			return httpclient.Part{}, err
		}
	}
	if f.FilePath != nil {
		path, err := template.Render(f.FilePath, vs)
		if err != nil {
			return httpclient.Part{}, err
		}
		resolved, err := resolveContextPath(contextDir, path)
		if err != nil {
			return httpclient.Part{}, err
		}
		part.FilePath = resolved
		part.FileName = filepath.Base(resolved)
		if part.ContentType == "" {
			part.ContentType = httpclient.InferContentType(resolved)
		}
		return part, nil
	}
	val, err := template.Render(f.Value, vs)
	if err != nil {
		return httpclient.Part{}, err
	}
	part.Value = []byte(val)
	return part, nil
}

// buildBody renders req's Body to concrete bytes plus an implicit
// content-type (spec §6 "body file reference ... resolved against the
// Hurl file's directory, with an allowlist check").
func buildBody(b *ast.Body, vs *variables.VariableSet, contextDir string) (httpclient.RequestBody, string, error) {
	switch b.Kind {
	case ast.BodyRawString, ast.BodyMultilineString:
		text, err := template.Render(b.Raw, vs)
		if err != nil {
			return httpclient.RequestBody{}, "", err
		}
		if b.Kind == ast.BodyMultilineString && b.Encoding == "base64" {
			decoded, err := decodeBase64Loose(text)
			if err != nil {
				return httpclient.RequestBody{}, "", fmt.Errorf("runner: invalid base64 body: %w", err)
			}
			return httpclient.RequestBody{Kind: httpclient.BodyBinary, Binary: decoded}, "application/octet-stream", nil
		}
		ct := "text/plain"
		if b.Kind == ast.BodyMultilineString && b.Encoding == "json" {
			ct = "application/json"
		}
		return httpclient.RequestBody{Kind: httpclient.BodyText, Text: text}, ct, nil

	case ast.BodyBase64:
		return httpclient.RequestBody{Kind: httpclient.BodyBinary, Binary: b.Base64Bytes}, "application/octet-stream", nil

	case ast.BodyHex:
		return httpclient.RequestBody{Kind: httpclient.BodyBinary, Binary: b.HexBytes}, "application/octet-stream", nil

	case ast.BodyFile:
		resolved, err := resolveContextPath(contextDir, b.FilePath)
		if err != nil {
			return httpclient.RequestBody{}, "", err
		}
		return httpclient.RequestBody{Kind: httpclient.BodyFileRef, FilePath: resolved}, httpclient.InferContentType(resolved), nil

	case ast.BodyJSON:
		text, err := renderJSONNode(b.JSONTree, vs)
		if err != nil {
			return httpclient.RequestBody{}, "", err
		}
		return httpclient.RequestBody{Kind: httpclient.BodyText, Text: text}, "application/json", nil

	case ast.BodyXML:
		return httpclient.RequestBody{Kind: httpclient.BodyText, Text: b.XMLRaw}, "application/xml", nil

	default:
		return httpclient.RequestBody{}, "", fmt.Errorf("runner: unsupported body kind %d", b.Kind)
	}
}

// resolveContextPath joins a file reference against contextDir and
// rejects any path that escapes it (spec §6 allowlist check).
func resolveContextPath(contextDir, rel string) (string, error) {
	if contextDir == "" {
		contextDir = "."
	}
	joined := filepath.Join(contextDir, rel)
	absDir, err := filepath.Abs(contextDir)
	if err != nil {
		return "", err
	}
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}
	rel2, err := filepath.Rel(absDir, absJoined)
	if err != nil || strings.HasPrefix(rel2, "..") {
		return "", fmt.Errorf("runner: file reference %q escapes context directory", rel)
	}
	return absJoined, nil
}

func decodeBase64Loose(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		default:
			return r
		}
	}, s)
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

func basicAuthHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

// renderJSONNode walks a templated JSON tree (spec §3 "JSON tree
// (templated)") into its final textual JSON representation. Every string
// leaf and key is rendered with template.Render and JSON-quoted, so a
// placeholder always yields a JSON string, whatever its Value's kind.
func renderJSONNode(n *ast.JSONNode, vs *variables.VariableSet) (string, error) {
	var sb strings.Builder
	if err := writeJSONNode(&sb, n, vs); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeJSONNode(sb *strings.Builder, n *ast.JSONNode, vs *variables.VariableSet) error {
	switch n.Kind {
	case ast.JSONNull:
		sb.WriteString("null")
	case ast.JSONBool:
		sb.WriteString(strconv.FormatBool(n.Bool))
	case ast.JSONNumber:
		sb.WriteString(n.Number)
	case ast.JSONString:
		text, err := template.Render(n.Str, vs)
		if err != nil {
			return err
		}
		sb.WriteString(jsonQuote(text))
	case ast.JSONArray:
		sb.WriteByte('[')
		for i, el := range n.Elements {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSONNode(sb, el, vs); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case ast.JSONObject:
		sb.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			key, err := template.Render(k, vs)
			if err != nil {
				return err
			}
			sb.WriteString(jsonQuote(key))
			sb.WriteByte(':')
			if err := writeJSONNode(sb, n.Values[i], vs); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}

func jsonQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
