package ast

import "github.com/hurlgo/hurl/internal/sourcepos"

// FilterKind enumerates the filter functions of spec §4.4.
type FilterKind int

const (
	FilterCount FilterKind = iota
	FilterFirst
	FilterLast
	FilterNth
	FilterRegex
	FilterReplace
	FilterReplaceRegex
	FilterSplit
	FilterBase64Decode
	FilterBase64Encode
	FilterBase64UrlSafeDecode
	FilterBase64UrlSafeEncode
	FilterUrlDecode
	FilterUrlEncode
	FilterHtmlEscape
	FilterHtmlUnescape
	FilterToInt
	FilterToFloat
	FilterToString
	FilterToHex
	FilterToDate
	FilterFormat
	FilterDaysAfterNow
	FilterDaysBeforeNow
	FilterDecode
	FilterUtf8Encode
	FilterUtf8Decode
	FilterJsonpath
	FilterXpath
	FilterLocation
	FilterUrlQueryParam
)

// Filter is one filter invocation in a chain.
type Filter struct {
	Kind FilterKind

	Nth             int64
	Pattern         *Template // FilterRegex, FilterReplaceRegex
	Old, New        *Template // FilterReplace
	Sep             *Template // FilterSplit
	Format          *Template // FilterToDate, FilterFormat
	Encoding        *Template // FilterDecode
	Expr            *Template // FilterJsonpath, FilterXpath
	ParamName       *Template // FilterUrlQueryParam

	span sourcepos.Span
}

func (f *Filter) Span() sourcepos.Span { return f.span }

func NewFilter(kind FilterKind, span sourcepos.Span) *Filter {
	return &Filter{Kind: kind, span: span}
}
