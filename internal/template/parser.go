package template

import (
	"fmt"
	"strings"
)

// Parse turns raw template source into a Node list. Trailing newlines are
// preserved byte-for-byte because they simply end up inside the final
// TextNode with no trimming applied.
func Parse(src string) ([]Node, error) {
	p := &templateParser{src: src}
	nodes, err := p.parseUntil()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("unexpected trailing template content")
	}
	return nodes, nil
}

type templateParser struct {
	src string
	pos int
}

// parseUntil parses nodes until EOF or a block-closing tag ("elif", "else",
// "endif", "endfor") is encountered; the closing tag itself is consumed and
// its keyword returned to the caller as a *blockEnd error value.
func (p *templateParser) parseUntil() ([]Node, error) {
	var nodes []Node
	for p.pos < len(p.src) {
		next := strings.IndexAny(p.src[p.pos:], "{")
		if next < 0 {
			nodes = append(nodes, TextNode{Text: p.src[p.pos:]})
			p.pos = len(p.src)
			break
		}
		if next > 0 {
			nodes = append(nodes, TextNode{Text: p.src[p.pos : p.pos+next]})
			p.pos += next
		}
		if strings.HasPrefix(p.src[p.pos:], "{{") {
			end := strings.Index(p.src[p.pos:], "}}")
			if end < 0 {
				return nil, fmt.Errorf("unterminated '{{' expression")
			}
			exprSrc := p.src[p.pos+2 : p.pos+end]
			p.pos += end + 2
			expr, err := ParseExpr(strings.TrimSpace(exprSrc))
			if err != nil {
				return nil, fmt.Errorf("template syntax error in {{ %s }}: %w", exprSrc, err)
			}
			nodes = append(nodes, OutputNode{Expr: expr})
			continue
		}
		if strings.HasPrefix(p.src[p.pos:], "{#") {
			end := strings.Index(p.src[p.pos:], "#}")
			if end < 0 {
				return nil, fmt.Errorf("unterminated '{#' comment")
			}
			p.pos += end + 2
			continue
		}
		if strings.HasPrefix(p.src[p.pos:], "{%") {
			end := strings.Index(p.src[p.pos:], "%}")
			if end < 0 {
				return nil, fmt.Errorf("unterminated '{%%' tag")
			}
			tagSrc := strings.TrimSpace(p.src[p.pos+2 : p.pos+end])
			p.pos += end + 2

			kw, rest := splitKeyword(tagSrc)
			switch kw {
			case "if":
				node, err := p.parseIf(rest)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
				continue
			case "for":
				node, err := p.parseFor(rest)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
				continue
			case "elif", "else", "endif", "endfor":
				// Tag text is already consumed; the caller resumes parsing
				// right after it (elif/else) or stops here (endif/endfor).
				return nodes, &blockEnd{keyword: kw, rest: rest}
			default:
				return nil, fmt.Errorf("unknown template tag %q", kw)
			}
		}
		// Lone '{' that is not a recognized delimiter: consume it as text.
		nodes = append(nodes, TextNode{Text: "{"})
		p.pos++
	}
	return nodes, nil
}

// blockEnd is returned (as an error value, by convention of this
// hand-rolled recursive descent) to signal parseUntil hit a closing tag;
// callers type-assert it rather than treating it as a real failure.
type blockEnd struct {
	keyword string
	rest    string
}

func (b *blockEnd) Error() string { return "block end: " + b.keyword }

func splitKeyword(tagSrc string) (kw, rest string) {
	i := strings.IndexAny(tagSrc, " \t")
	if i < 0 {
		return tagSrc, ""
	}
	return tagSrc[:i], strings.TrimSpace(tagSrc[i+1:])
}

func (p *templateParser) parseIf(condSrc string) (Node, error) {
	cond, err := ParseExpr(condSrc)
	if err != nil {
		return nil, fmt.Errorf("template syntax error in if condition: %w", err)
	}
	node := IfNode{}
	body, tail, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	node.Branches = append(node.Branches, IfBranch{Cond: cond, Body: body})

	for tail != nil && tail.keyword == "elif" {
		c, err := ParseExpr(tail.rest)
		if err != nil {
			return nil, fmt.Errorf("template syntax error in elif condition: %w", err)
		}
		b, next, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, IfBranch{Cond: c, Body: b})
		tail = next
	}
	if tail != nil && tail.keyword == "else" {
		b, next, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		node.Else = b
		tail = next
	}
	if tail == nil || tail.keyword != "endif" {
		return nil, fmt.Errorf("missing {%% endif %%}")
	}
	return node, nil
}

func (p *templateParser) parseFor(clauseSrc string) (Node, error) {
	parts := strings.SplitN(clauseSrc, " in ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed for clause %q, expected 'x in seq'", clauseSrc)
	}
	varName := strings.TrimSpace(parts[0])
	seq, err := ParseExpr(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("template syntax error in for sequence: %w", err)
	}
	body, tail, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	if tail == nil || tail.keyword != "endfor" {
		return nil, fmt.Errorf("missing {%% endfor %%}")
	}
	return ForNode{Var: varName, Seq: seq, Body: body}, nil
}

// parseBlockBody parses nodes until a blockEnd is hit, returning it
// separately from the ordinary error channel.
func (p *templateParser) parseBlockBody() ([]Node, *blockEnd, error) {
	nodes, err := p.parseUntil()
	if err == nil {
		return nodes, nil, fmt.Errorf("unexpected end of template inside block")
	}
	if be, ok := err.(*blockEnd); ok {
		return nodes, be, nil
	}
	return nil, nil, err
}
