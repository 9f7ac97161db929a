package command

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const polecenYAML = `
commands:
  - name: polecen
    description: Moderation helpers
    children:
      - name: perform
        arguments:
          - name: target
            type: member
          - name: action
            type: text
          - name: reason
            type: text
            required: false
      - name: version
        aliases: [ver, "?"]
`

const polecenJSON = `{
  "commands": [{
    "name": "polecen",
    "description": "Moderation helpers",
    "children": [
      {"name": "perform", "arguments": [
        {"name": "target", "type": "member"},
        {"name": "action", "type": "text"},
        {"name": "reason", "type": "text", "required": false}
      ]},
      {"name": "version", "aliases": ["ver", "?"]}
    ]
  }]
}`

func TestDecodeDefinitions(t *testing.T) {
	fromYAML, err := DecodeDefinitionsYAML([]byte(polecenYAML))
	if err != nil {
		t.Fatalf("DecodeDefinitionsYAML() error = %v", err)
	}
	fromJSON, err := DecodeDefinitionsJSON([]byte(polecenJSON))
	if err != nil {
		t.Fatalf("DecodeDefinitionsJSON() error = %v", err)
	}
	if !reflect.DeepEqual(fromYAML, fromJSON) {
		t.Errorf("YAML and JSON decode differently:\n%+v\n%+v", fromYAML, fromJSON)
	}
	if len(fromYAML) != 1 {
		t.Fatalf("got %d commands", len(fromYAML))
	}
	perform := fromYAML[0].Children[0]
	if !perform.Arguments[0].IsRequired() || perform.Arguments[2].IsRequired() {
		t.Errorf("required flags not decoded: %+v", perform.Arguments)
	}
	if _, err := Compile(fromYAML[0], nil); err != nil {
		t.Errorf("Compile() error = %v", err)
	}
}

func TestDecodeDefinitionsUnknownField(t *testing.T) {
	if _, err := DecodeDefinitionsYAML([]byte("commands:\n  - name: x\n    alias: y\n")); err == nil {
		t.Error("YAML: unknown field accepted")
	}
	if _, err := DecodeDefinitionsJSON([]byte(`{"commands":[{"name":"x","alias":"y"}]}`)); err == nil {
		t.Error("JSON: unknown field accepted")
	}
}

func TestLoadDefinitionsFile(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"cmds.yml": polecenYAML, "cmds.json": polecenJSON} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		defs, err := LoadDefinitionsFile(path)
		if err != nil {
			t.Fatalf("LoadDefinitionsFile(%s) error = %v", name, err)
		}
		if len(defs) != 1 || defs[0].Name != "polecen" {
			t.Errorf("%s: got %+v", name, defs)
		}
	}

	path := filepath.Join(dir, "cmds.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDefinitionsFile(path); err == nil {
		t.Error("unsupported extension accepted")
	}
}
