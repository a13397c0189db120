package parser

import "github.com/hurlgo/hurl/internal/reader"

// ParseFn is one parsing step producing a T from p, or an error (spec
// §9: "recoverable"/"non_recoverable" is an explicit property of the
// error record).
type ParseFn[T any] func(p *Parser) (T, error)

// Optional runs fn; on a recoverable failure it rewinds the cursor and
// returns the zero value with a nil error. A non-recoverable failure
// propagates, since `choice`-style alternatives are only permitted while
// the current error remains recoverable (spec §4.1).
func Optional[T any](p *Parser, fn ParseFn[T]) (T, error) {
	mark := p.r.Mark()
	v, err := fn(p)
	if err == nil {
		return v, nil
	}
	if IsRecoverable(err) {
		p.r.Reset(mark)
		var zero T
		return zero, nil
	}
	var zero T
	return zero, err
}

// ZeroOrMore repeatedly runs fn until it fails recoverably, rewinding the
// cursor past the failed attempt each time.
func ZeroOrMore[T any](p *Parser, fn ParseFn[T]) ([]T, error) {
	var out []T
	for {
		mark := p.r.Mark()
		v, err := fn(p)
		if err != nil {
			if IsRecoverable(err) {
				p.r.Reset(mark)
				return out, nil
			}
			return out, err
		}
		out = append(out, v)
	}
}

// OneOrMore requires at least one successful application of fn.
func OneOrMore[T any](p *Parser, fn ParseFn[T]) ([]T, error) {
	first, err := fn(p)
	if err != nil {
		return nil, err
	}
	rest, err := ZeroOrMore(p, fn)
	if err != nil {
		return nil, err
	}
	return append([]T{first}, rest...), nil
}

// Choice tries each alternative in order, moving to the next only while
// the previous failure was recoverable; the cursor rewinds between
// attempts. The last alternative's error (recoverable or not) is
// returned if every alternative fails.
func Choice[T any](p *Parser, fns ...ParseFn[T]) (T, error) {
	var lastErr error
	for _, fn := range fns {
		mark := p.r.Mark()
		v, err := fn(p)
		if err == nil {
			return v, nil
		}
		if !IsRecoverable(err) {
			var zero T
			return zero, err
		}
		p.r.Reset(mark)
		lastErr = err
	}
	var zero T
	if lastErr == nil {
		lastErr = p.fail(ErrOther, true, "no alternative matched")
	}
	return zero, lastErr
}

// Recover marks any error returned by fn as recoverable, restoring the
// cursor to mark. Used to probe ahead (e.g. trying to parse a section
// header) without committing.
func Recover[T any](p *Parser, mark reader.Mark, fn ParseFn[T]) (T, error) {
	v, err := fn(p)
	if err != nil {
		p.r.Reset(mark)
		pe := asParseError(err)
		if pe != nil {
			recoverable := *pe
			recoverable.Recoverable = true
			var zero T
			return zero, &recoverable
		}
	}
	return v, err
}

// NonRecover marks any error returned by fn as non-recoverable: the
// parser has "committed" past a distinguishing token (spec §9) and a
// failure from here on should halt, not be swallowed by `choice`.
func NonRecover[T any](fn ParseFn[T]) ParseFn[T] {
	return func(p *Parser) (T, error) {
		v, err := fn(p)
		if err != nil {
			pe := asParseError(err)
			if pe != nil {
				committed := *pe
				committed.Recoverable = false
				var zero T
				return zero, &committed
			}
		}
		return v, err
	}
}
