package ast

// KV is a templated key/value pair, used by QueryStringParams,
// FormParams, and Cookies sections.
type KV struct {
	Name  *Template
	Value *Template
}

// MultipartField is one part of a [MultipartFormData] section: either a
// plain templated value or a file upload with optional content type.
type MultipartField struct {
	Name        *Template
	Value       *Template // set when this is a plain field
	FilePath    *Template // set when this is a file part
	ContentType *Template // optional explicit content-type for file parts
}

// BasicAuth holds the templated username/password of a [BasicAuth]
// section.
type BasicAuth struct {
	Username *Template
	Password *Template
}

// EntryOptions is the parsed [Options] section; zero values mean "not
// set, inherit from the runner" per SPEC_FULL.md §3's description of the
// full `[Options]` surface (supplemented from original_source/http/options.rs).
type EntryOptions struct {
	Variables       []KV
	Retry           *int64 // nil = not set; <0 means infinite (source uses -1)
	RetryInterval   *Duration
	Compressed      *bool
	Location        *bool // follow redirects
	Insecure        *bool
	CaCert          *Template
	Cert            *Template
	Key             *Template
	Proxy           *Template
	Resolve         []Template
	ConnectTo       []Template
	HTTPVersion     *Template
	IPv4            *bool
	IPv6            *bool
	UnixSocket      *Template
	Delay           *Duration
	Repeat          *int64
	Timeout         *Duration
	ConnectTimeout  *Duration
	VeryVerbose     *bool
}

// Section is a discriminated marker for the kind of bracketed section
// that follows a request or response in the source grammar.
type SectionKind int

const (
	SectionQueryStringParams SectionKind = iota
	SectionFormParams
	SectionMultipartFormData
	SectionCookies
	SectionBasicAuth
	SectionOptions
	SectionCaptures
	SectionAsserts
)
