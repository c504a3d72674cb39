package template

// RenderSource parses and renders template source in one call, the entry
// point the render engine (internal/render) calls per consumer tag.
func RenderSource(src string, scope Scope) (string, []Warning, error) {
	nodes, err := Parse(src)
	if err != nil {
		return "", nil, err
	}
	return Render(nodes, scope)
}
