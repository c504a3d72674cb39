package data

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	goini "github.com/go-ini/ini"
	kdl "github.com/sblinch/kdl-go"
	"golang.org/x/mod/modfile"
	yaml "gopkg.in/yaml.v3"

	"github.com/viant/mdt/internal/model"
)

func parseJSON(content []byte) (model.Value, error) {
	var raw interface{}
	if err := json.Unmarshal(content, &raw); err != nil {
		return model.Value{}, fmt.Errorf("malformed json data: %w", err)
	}
	return fromInterface(raw)
}

func parseTOML(content []byte) (model.Value, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(content), &raw); err != nil {
		return model.Value{}, fmt.Errorf("malformed toml data: %w", err)
	}
	return fromInterface(raw)
}

func parseYAML(content []byte) (model.Value, error) {
	var raw interface{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return model.Value{}, fmt.Errorf("malformed yaml data: %w", err)
	}
	return fromInterface(raw)
}

func parseINI(content []byte) (model.Value, error) {
	file, err := goini.Load(content)
	if err != nil {
		return model.Value{}, fmt.Errorf("malformed ini data: %w", err)
	}
	root := model.Object()
	for _, section := range file.Sections() {
		obj := model.Object()
		for _, key := range section.Keys() {
			obj.Set(key.Name(), model.String(key.Value()))
		}
		name := section.Name()
		if name == goini.DefaultSection {
			// Merge default-section keys directly into the root object so
			// `{{ ns.key }}` works for files with no [section] headers.
			for _, key := range section.Keys() {
				root.Set(key.Name(), model.String(key.Value()))
			}
			continue
		}
		root.Set(name, obj)
	}
	return root, nil
}

func parseKDL(content []byte) (model.Value, error) {
	doc, err := kdl.Parse(bytes.NewReader(content))
	if err != nil {
		return model.Value{}, fmt.Errorf("malformed kdl data: %w", err)
	}
	root := model.Object()
	for _, n := range doc.Nodes {
		root.Set(n.Name.String(), kdlNodeValue(n))
	}
	return root, nil
}

func kdlNodeValue(n *kdl.Node) model.Value {
	if len(n.Children) > 0 {
		obj := model.Object()
		for _, c := range n.Children {
			obj.Set(c.Name.String(), kdlNodeValue(c))
		}
		return obj
	}
	if len(n.Arguments) == 1 {
		return kdlValue(n.Arguments[0].Value)
	}
	if len(n.Arguments) > 1 {
		items := make([]model.Value, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			items = append(items, kdlValue(a.Value))
		}
		return model.Array(items)
	}
	return model.Null()
}

// parseGoMod exposes a go.mod file as a [data] namespace, the way a
// generated API-reference badge or module-identity section in a provider
// template wants "the module path" or "the declared Go version" without the
// author hand-copying it.
func parseGoMod(content []byte) (model.Value, error) {
	mf, err := modfile.Parse("go.mod", content, nil)
	if err != nil {
		return model.Value{}, fmt.Errorf("malformed go.mod data: %w", err)
	}
	root := model.Object()
	if mf.Module != nil {
		root.Set("module", model.String(mf.Module.Mod.Path))
	}
	if mf.Go != nil {
		root.Set("go", model.String(mf.Go.Version))
	}
	requires := make([]model.Value, 0, len(mf.Require))
	for _, r := range mf.Require {
		item := model.Object()
		item.Set("path", model.String(r.Mod.Path))
		item.Set("version", model.String(r.Mod.Version))
		item.Set("indirect", model.Bool(r.Indirect))
		requires = append(requires, item)
	}
	root.Set("require", model.Array(requires))
	return root, nil
}

func kdlValue(v kdl.Value) model.Value {
	switch {
	case v.IsString():
		return model.String(v.AsString())
	case v.IsNumber():
		return model.Number(v.AsFloat())
	case v.IsBool():
		return model.Bool(v.AsBool())
	}
	return model.Null()
}
