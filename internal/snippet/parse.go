package snippet

import (
	"fmt"
	"strings"
)

// Transforms resolves the transform names used in ${name|transform} fields.
type Transforms interface {
	Lookup(name string) (func(string) string, bool)
}

// Parse builds a snippet from template text:
//
//	${name}            field with initial text "name"
//	${name:text}       field with initial text "text"
//	${name}            again: mirror of the first field called name
//	${name|transform}  mirror passed through a named transform
//	${Caret}           caret position after Enter
//	${Selection}       the selected text
//	${@name}           named anchor
//	$$                 a literal $
//
// A lone $ not followed by $ or { is literal. transforms may be nil when the
// template uses none.
func Parse(template string, transforms Transforms) (*Snippet, error) {
	p := parser{transforms: transforms, fields: make(map[string]*Replaceable)}
	if err := p.parse(template); err != nil {
		return nil, err
	}
	s := New(p.elements...)
	s.fields = p.order
	return s, nil
}

type parser struct {
	transforms Transforms
	elements   []Element
	text       strings.Builder
	fields     map[string]*Replaceable
	order      []namedField
}

func (p *parser) parse(src string) error {
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '$' || i+1 == len(src) {
			p.text.WriteByte(c)
			continue
		}
		switch src[i+1] {
		case '$':
			p.text.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(src[i+2:], '}')
			if end < 0 {
				return fmt.Errorf("%w: unterminated ${ at offset %d", ErrSyntax, i)
			}
			if err := p.placeholder(src[i+2 : i+2+end]); err != nil {
				return err
			}
			i += 2 + end
		default:
			p.text.WriteByte(c)
		}
	}
	p.flush()
	return nil
}

func (p *parser) flush() {
	if p.text.Len() > 0 {
		p.elements = append(p.elements, &Text{Text: p.text.String()})
		p.text.Reset()
	}
}

func (p *parser) emit(e Element) {
	p.flush()
	p.elements = append(p.elements, e)
}

func (p *parser) placeholder(body string) error {
	switch {
	case body == "Caret":
		p.emit(&Caret{})
		return nil
	case body == "Selection":
		p.emit(&Selection{})
		return nil
	case strings.HasPrefix(body, "@"):
		if len(body) == 1 {
			return fmt.Errorf("%w: anchor without a name", ErrSyntax)
		}
		p.emit(&Anchor{Name: body[1:]})
		return nil
	}

	name, transform, hasTransform := strings.Cut(body, "|")
	name, initial, hasInitial := strings.Cut(name, ":")
	if name == "" {
		return fmt.Errorf("%w: empty field name in ${%s}", ErrSyntax, body)
	}

	target, seen := p.fields[name]
	if !seen {
		if hasTransform {
			return fmt.Errorf("%w: field %q is transformed before it is defined", ErrSyntax, name)
		}
		if !hasInitial {
			initial = name
		}
		target = &Replaceable{Text: initial}
		p.fields[name] = target
		p.order = append(p.order, namedField{name: name, elem: target})
		p.emit(target)
		return nil
	}

	b := &Bound{Target: target}
	if hasTransform {
		if p.transforms == nil {
			return fmt.Errorf("%w: %q", ErrUnknownTransform, transform)
		}
		fn, ok := p.transforms.Lookup(transform)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTransform, transform)
		}
		b.Transform = fn
	}
	p.emit(b)
	return nil
}
