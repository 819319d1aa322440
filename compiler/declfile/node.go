package declfile

import (
	"github.com/brimdata/cdecl/compiler/srcfiles"
	"gopkg.in/yaml.v3"
)

// keywords introduce a declaration entry.  Each entry has exactly one.
var keywords = []string{"typedef", "struct", "union", "class", "enum", "func", "var"}

// keys records where each key of a YAML mapping appeared so errors can
// point at the offending value.
type keys struct {
	pos    srcfiles.Position
	values map[string]srcfiles.Position
	order  []string
}

func (k *keys) scan(node *yaml.Node) {
	k.pos = position(node)
	k.values = make(map[string]srcfiles.Position)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		k.values[key.Value] = position(val)
		k.order = append(k.order, key.Value)
	}
}

func (k *keys) has(key string) bool {
	_, ok := k.values[key]
	return ok
}

// at returns the position of the value of key or of the mapping itself if
// key is absent.
func (k *keys) at(key string) srcfiles.Position {
	if pos, ok := k.values[key]; ok {
		return pos
	}
	return k.pos
}

func position(node *yaml.Node) srcfiles.Position {
	return srcfiles.Position{Line: node.Line, Column: node.Column}
}

type document struct {
	Decls []*entry `yaml:"decls"`
	keys  keys
}

func (d *document) UnmarshalYAML(node *yaml.Node) error {
	type plain document
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}
	d.keys.scan(node)
	return nil
}

// entry is one element of the decls list.
type entry struct {
	Type      string    `yaml:"type"`
	Result    string    `yaml:"result"`
	Storage   string    `yaml:"storage"`
	Inline    bool      `yaml:"inline"`
	Variadic  bool      `yaml:"variadic"`
	Fields    []*member `yaml:"fields"`
	Constants []*member `yaml:"constants"`
	Params    []*member `yaml:"params"`
	Locals    []*member `yaml:"locals"`

	keys keys
	// keyword is the entry's declaration keyword and name its value.
	keyword  string
	name     string
	nkeyword int
}

func (e *entry) UnmarshalYAML(node *yaml.Node) error {
	type plain entry
	if err := node.Decode((*plain)(e)); err != nil {
		return err
	}
	e.keys.scan(node)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		for _, kw := range keywords {
			if key.Value == kw {
				e.keyword = kw
				e.nkeyword++
				if val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
					e.name = val.Value
				}
			}
		}
	}
	return nil
}

// member is an element of a fields, constants, params, or locals list.
type member struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Value   *int64 `yaml:"value"`
	Storage string `yaml:"storage"`

	keys keys
}

func (m *member) UnmarshalYAML(node *yaml.Node) error {
	type plain member
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	m.keys.scan(node)
	return nil
}
