package lexparse

import "github.com/viant/mdt/internal/model"

// TagSyntax is the parsed, still file-position-relative content of one
// "{ SIGIL IDENT (:ARG)* (|TRANSFORMER)* }" tag body.
type TagSyntax struct {
	Sigil        byte
	Name         string
	NameStart    int
	NameEnd      int
	Arguments    []model.Argument
	Transformers []model.Transformer // Pos fields are body-relative here
	malformed    []tagIssue
}

type tagIssueKind int

const (
	issueInvalidName tagIssueKind = iota
	issueUnknownTransformer
	issueInvalidTransformerArgs
)

type tagIssue struct {
	kind  tagIssueKind
	name  string
	start int
	end   int
}

// parseTagBody attempts to parse a comment body as a tag. ok is false when
// the body does not begin with "{" SIGIL followed by a name (a malformed
// name such as "1bad" still counts) or does not end in "}" — that is
// simply not a tag and produces no diagnostic. When ok is true the returned
// TagSyntax may still carry issues (invalid name / unknown transformer /
// bad transformer arity) for the caller to turn into diagnostics.
func parseTagBody(body string) (*TagSyntax, bool) {
	lex := newTagLexer(body)

	open := lex.next()
	if open.kind != tokLBrace {
		return nil, false
	}
	sigilTok := lex.next()
	if sigilTok.kind != tokSigil {
		return nil, false
	}

	nameStart := lex.pos
	nameTok := lex.next()
	if nameTok.kind != tokIdent {
		lex.pos = nameStart
		var ok bool
		nameTok, ok = lex.lexMalformedName()
		if !ok {
			return nil, false
		}
	}

	tag := &TagSyntax{
		Sigil:     sigilTok.text[0],
		Name:      nameTok.text,
		NameStart: nameTok.start,
		NameEnd:   nameTok.end,
	}
	if !isValidIdentifier(nameTok.text) {
		tag.malformed = append(tag.malformed, tagIssue{
			kind: issueInvalidName, name: nameTok.text,
			start: nameTok.start, end: nameTok.end,
		})
	}

	// Consume ":" ARG pairs (tag arguments).
	pos := lex.pos
	for {
		save := lex.pos
		lex.skipWS()
		if lex.peek() != ':' {
			lex.pos = save
			break
		}
		lex.next() // consume ':'
		argTok := lex.next()
		arg, ok := argFromToken(argTok)
		if !ok {
			lex.pos = save
			break
		}
		tag.Arguments = append(tag.Arguments, arg)
		pos = lex.pos
	}
	_ = pos

	// Consume "|" TRANSFORMER chain.
	for {
		save := lex.pos
		lex.skipWS()
		if lex.peek() != '|' {
			lex.pos = save
			break
		}
		lex.next() // consume '|'
		tNameTok := lex.next()
		if tNameTok.kind != tokIdent {
			// Malformed chain; stop trying to parse transformers further,
			// but still require a closing brace below.
			lex.pos = save
			break
		}
		kind := model.LookupTransformer(tNameTok.text)
		start := tNameTok.start
		var args []model.Argument
		for {
			save2 := lex.pos
			lex.skipWS()
			if lex.peek() != ':' {
				lex.pos = save2
				break
			}
			lex.next()
			argTok := lex.next()
			arg, ok := argFromToken(argTok)
			if !ok {
				lex.pos = save2
				break
			}
			args = append(args, arg)
		}
		end := lex.pos
		if kind == model.TransformUnknown {
			tag.malformed = append(tag.malformed, tagIssue{
				kind: issueUnknownTransformer, name: tNameTok.text, start: start, end: end,
			})
		} else if min, max := kind.Arity(); len(args) < min || len(args) > max {
			tag.malformed = append(tag.malformed, tagIssue{
				kind: issueInvalidTransformerArgs, name: tNameTok.text, start: start, end: end,
			})
		}
		tag.Transformers = append(tag.Transformers, model.Transformer{
			Kind: kind,
			Name: tNameTok.text,
			Args: args,
			Pos:  model.Range{Start: model.Position{Offset: uint64(start)}, End: model.Position{Offset: uint64(end)}},
		})
	}

	closeTok := lex.next()
	if closeTok.kind != tokRBrace {
		return nil, false
	}
	return tag, true
}

func argFromToken(t token) (model.Argument, bool) {
	switch t.kind {
	case tokString:
		return model.NewStringArg(t.text), true
	case tokNumber:
		n, ok := parseNumberLiteral(t.text)
		if !ok {
			return model.Argument{}, false
		}
		return model.NewNumberArg(n), true
	case tokBool:
		return model.NewBoolArg(t.text == "true"), true
	}
	return model.Argument{}, false
}

func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
