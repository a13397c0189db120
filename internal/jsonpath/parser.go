package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hurlgo/hurl/internal/reader"
)

// Compile parses expr as one shared grammar (spec §9 permits unifying
// the legacy and standard dialects behind a single evaluator): dot/
// bracket/wildcard/recursive/slice selectors plus filter selectors with
// comparison operators, logical composition, and function extensions.
func Compile(expr string) (*Path, error) {
	r := reader.New(strings.TrimSpace(expr))
	p := &pathParser{r: r}
	return p.parseRoot()
}

type pathParser struct {
	r *reader.Reader
}

func (p *pathParser) parseRoot() (*Path, error) {
	c, ok := p.r.Peek()
	if !ok || (c != '$' && c != '@') {
		return nil, fmt.Errorf("jsonpath: expression must start with '$' or '@'")
	}
	p.r.Next()
	path := &Path{}
	for !p.r.Eof() {
		seg, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, seg...)
	}
	return path, nil
}

func (p *pathParser) parseSegment() ([]Segment, error) {
	c, _ := p.r.Peek()
	switch c {
	case '.':
		p.r.Next()
		if c2, ok := p.r.Peek(); ok && c2 == '.' {
			p.r.Next()
			// recursive descent; the following selector (name/*/[..]) is
			// the actual target, applied after the recursive flattening.
			var rest []Segment
			if c3, ok3 := p.r.Peek(); ok3 && c3 == '[' {
				bracket, err := p.parseBracket()
				if err != nil {
					return nil, err
				}
				rest = bracket
			} else if ok3 && c3 == '*' {
				p.r.Next()
				rest = []Segment{{Kind: SegWildcard}}
			} else {
				name := p.readName()
				if name == "" {
					return nil, fmt.Errorf("jsonpath: expecting a selector after '..'")
				}
				rest = []Segment{{Kind: SegName, Name: name}}
			}
			return append([]Segment{{Kind: SegRecursive}}, rest...), nil
		}
		if c2, ok := p.r.Peek(); ok && c2 == '*' {
			p.r.Next()
			return []Segment{{Kind: SegWildcard}}, nil
		}
		name := p.readName()
		if name == "" {
			return nil, fmt.Errorf("jsonpath: expecting a name after '.'")
		}
		return []Segment{{Kind: SegName, Name: name}}, nil
	case '[':
		return p.parseBracket()
	default:
		return nil, fmt.Errorf("jsonpath: unexpected character %q", c)
	}
}

// readName reads an unquoted member name: letters, digits, '_' and '-',
// stopping at the next segment boundary, whitespace, or operator
// character — this path may appear mid filter-expression (e.g. "@.price"
// followed by " > 20"), not only at end of input.
func (p *pathParser) readName() string {
	var sb strings.Builder
	for {
		c, ok := p.r.Peek()
		if !ok || !(c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			break
		}
		sb.WriteRune(c)
		p.r.Next()
	}
	return sb.String()
}

func (p *pathParser) parseBracket() ([]Segment, error) {
	p.r.Next() // consume '['
	p.skipSpace()
	c, ok := p.r.Peek()
	if !ok {
		return nil, fmt.Errorf("jsonpath: unterminated '['")
	}

	if c == '*' {
		p.r.Next()
		p.skipSpace()
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return []Segment{{Kind: SegWildcard}}, nil
	}

	if c == '?' {
		p.r.Next()
		hasParen := false
		if c2, ok2 := p.r.Peek(); ok2 && c2 == '(' {
			hasParen = true
			p.r.Next()
		}
		fe, err := p.parseFilterExpr()
		if err != nil {
			return nil, err
		}
		if hasParen {
			p.skipSpace()
			if err := p.expect(')'); err != nil {
				return nil, err
			}
		}
		p.skipSpace()
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		return []Segment{{Kind: SegFilter, Filter: fe}}, nil
	}

	if c == '\'' || c == '"' {
		var names []string
		for {
			name, err := p.quoted()
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			p.skipSpace()
			if c2, ok2 := p.r.Peek(); ok2 && c2 == ',' {
				p.r.Next()
				p.skipSpace()
				continue
			}
			break
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		if len(names) == 1 {
			return []Segment{{Kind: SegName, Name: names[0]}}, nil
		}
		return []Segment{{Kind: SegUnion, UnionNames: names}}, nil
	}

	// numeric: index, slice, or union of indices
	start := p.r.Offset()
	hasColon := false
	for {
		c2, ok2 := p.r.Peek()
		if !ok2 {
			break
		}
		if c2 == ']' {
			break
		}
		if c2 == ':' {
			hasColon = true
		}
		p.r.Next()
	}
	body := p.r.Slice(start, p.r.Offset())
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	if hasColon {
		return []Segment{p.parseSlice(body)}, nil
	}
	if strings.Contains(body, ",") {
		var idxs []int
		for _, part := range strings.Split(body, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("jsonpath: invalid index %q", part)
			}
			idxs = append(idxs, n)
		}
		return []Segment{{Kind: SegUnion, UnionIndices: idxs}}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("jsonpath: invalid index %q", body)
	}
	return []Segment{{Kind: SegIndex, Index: n}}, nil
}

func (p *pathParser) parseSlice(body string) Segment {
	parts := strings.SplitN(body, ":", 2)
	seg := Segment{Kind: SegSlice}
	if s := strings.TrimSpace(parts[0]); s != "" {
		n, err := strconv.Atoi(s)
		if err == nil {
			seg.SliceStart = &n
			seg.SliceHasStart = true
		}
	}
	if len(parts) > 1 {
		if s := strings.TrimSpace(parts[1]); s != "" {
			n, err := strconv.Atoi(s)
			if err == nil {
				seg.SliceEnd = &n
				seg.SliceHasEnd = true
			}
		}
	}
	return seg
}

func (p *pathParser) quoted() (string, error) {
	quote, _ := p.r.Next()
	var sb strings.Builder
	for {
		c, ok := p.r.Next()
		if !ok {
			return "", fmt.Errorf("jsonpath: unterminated quoted name")
		}
		if c == quote {
			break
		}
		if c == '\\' {
			esc, _ := p.r.Next()
			sb.WriteRune(esc)
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String(), nil
}

func (p *pathParser) skipSpace() {
	for {
		c, ok := p.r.Peek()
		if !ok || (c != ' ' && c != '\t') {
			return
		}
		p.r.Next()
	}
}

func (p *pathParser) expect(c rune) error {
	got, ok := p.r.Peek()
	if !ok || got != c {
		return fmt.Errorf("jsonpath: expecting %q", c)
	}
	p.r.Next()
	return nil
}
