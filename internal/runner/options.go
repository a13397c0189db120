package runner

import (
	"strings"
	"time"

	"github.com/hurlgo/hurl/internal/ast"
	"github.com/hurlgo/hurl/internal/httpclient"
	"github.com/hurlgo/hurl/internal/template"
	"github.com/hurlgo/hurl/internal/variables"
)

// Options is the runner-wide knob set (spec §4.8 step 1, §6 CLI surface),
// overridden per-entry by an [Options] section.
type Options struct {
	httpclient.ClientOptions

	Retry         int64 // 0 = no retry, <0 = retry indefinitely
	RetryInterval time.Duration
	Delay         time.Duration
	Repeat        int64
	VeryVerbose   bool
}

// Default returns the baseline options a file runner starts from absent
// any CLI override: a 30s timeout, redirects not followed, no retry.
func Default() Options {
	return Options{
		ClientOptions: httpclient.ClientOptions{
			Timeout:        30 * time.Second,
			ConnectTimeout: 30 * time.Second,
			MaxRedirects:   50,
			FollowLocation: false,
			Compressed:     false,
			Network:        httpclient.NetworkAny,
			HTTPVersion:    httpclient.VersionAny,
		},
	}
}

// Merge layers an entry's inline [Options] section over base (spec §4.8
// step 1: "Merge the entry's inline [Options] with the inherited runner
// options"). Every set field on eo wins; unset fields (nil pointers,
// empty slices) leave base untouched.
func Merge(base Options, eo *ast.EntryOptions, vs *variables.VariableSet) (Options, error) {
	out := base
	if eo == nil {
		return out, nil
	}
	if eo.Retry != nil {
		out.Retry = *eo.Retry
	}
	if eo.RetryInterval != nil {
		out.RetryInterval = eo.RetryInterval.Resolve(ast.UnitMillisecond)
	}
	if eo.Compressed != nil {
		out.Compressed = *eo.Compressed
	}
	if eo.Location != nil {
		out.FollowLocation = *eo.Location
	}
	if eo.Insecure != nil {
		out.Insecure = *eo.Insecure
	}
	if eo.Delay != nil {
		out.Delay = eo.Delay.Resolve(ast.UnitMillisecond)
	}
	if eo.Repeat != nil {
		out.Repeat = *eo.Repeat
	}
	if eo.Timeout != nil {
		out.Timeout = eo.Timeout.Resolve(ast.UnitSecond)
	}
	if eo.ConnectTimeout != nil {
		out.ConnectTimeout = eo.ConnectTimeout.Resolve(ast.UnitSecond)
	}
	if eo.VeryVerbose != nil {
		out.VeryVerbose = *eo.VeryVerbose
	}
	if eo.IPv4 != nil && *eo.IPv4 {
		out.Network = httpclient.NetworkIPv4
	}
	if eo.IPv6 != nil && *eo.IPv6 {
		out.Network = httpclient.NetworkIPv6
	}

	var err error
	if out.CACertPath, err = renderOpt(eo.CaCert, vs, out.CACertPath); err != nil {
		return out, err
	}
	if out.ClientCertPath, err = renderOpt(eo.Cert, vs, out.ClientCertPath); err != nil {
		return out, err
	}
	if out.ClientKeyPath, err = renderOpt(eo.Key, vs, out.ClientKeyPath); err != nil {
		return out, err
	}
	if out.ProxyURL, err = renderOpt(eo.Proxy, vs, out.ProxyURL); err != nil {
		return out, err
	}
	if out.UnixSocket, err = renderOpt(eo.UnixSocket, vs, out.UnixSocket); err != nil {
		return out, err
	}
	if eo.HTTPVersion != nil {
		v, err := template.Render(eo.HTTPVersion, vs)
		if err != nil {
			return out, err
		}
		out.HTTPVersion = parseHTTPVersion(v)
	}
	if len(eo.Resolve) > 0 {
		out.Resolve, err = renderTemplateList(eo.Resolve, vs)
		if err != nil {
			return out, err
		}
	}
	if len(eo.ConnectTo) > 0 {
		out.ConnectTo, err = renderTemplateList(eo.ConnectTo, vs)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

func renderOpt(t *ast.Template, vs *variables.VariableSet, fallback string) (string, error) {
	if t == nil {
		return fallback, nil
	}
	return template.Render(t, vs)
}

func renderTemplateList(ts []ast.Template, vs *variables.VariableSet) ([]string, error) {
	out := make([]string, 0, len(ts))
	for i := range ts {
		s, err := template.Render(&ts[i], vs)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseHTTPVersion(s string) httpclient.Version {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "http/1.0", "1.0":
		return httpclient.Version10
	case "http/1.1", "1.1":
		return httpclient.Version11
	case "http/2", "2":
		return httpclient.Version2
	case "http/3", "3":
		return httpclient.Version3
	default:
		return httpclient.VersionAny
	}
}
