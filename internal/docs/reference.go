// Package docs renders a Markdown command reference from compiled schemas.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/keshon/cmdargs/pkg/command"
	"github.com/rs/zerolog/log"
)

//go:embed reference.md.tmpl
var defaultTemplate string

// Command is one root in the reference.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Entries     []command.Entry
}

// Data is what reference templates are executed with.
type Data struct {
	Prefix   string
	Commands []Command
}

var funcs = template.FuncMap{"join": strings.Join}

// Collect gathers the reference data of every root in set.
func Collect(set *command.Set, prefix string) Data {
	d := Data{Prefix: prefix}
	for _, root := range set.Roots() {
		d.Commands = append(d.Commands, Command{
			Name:        root.Name(),
			Aliases:     root.Aliases(),
			Description: root.Description(),
			Entries:     command.Describe(root),
		})
	}
	return d
}

// Template parses tmpl, or the built-in reference template when tmpl is
// empty.
func Template(tmpl string) (*template.Template, error) {
	if tmpl == "" {
		tmpl = defaultTemplate
	}
	return template.New("reference").Funcs(funcs).Parse(tmpl)
}

// Render writes the reference of set to w.
func Render(w io.Writer, tmpl *template.Template, set *command.Set, prefix string) error {
	return tmpl.Execute(w, Collect(set, prefix))
}

// WriteFile renders the reference into outPath. tmplPath may be empty to
// use the built-in template.
func WriteFile(outPath, tmplPath string, set *command.Set, prefix string) error {
	var src string
	if tmplPath != "" {
		data, err := os.ReadFile(tmplPath)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		src = string(data)
	}
	tmpl, err := Template(src)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, tmpl, set, prefix); err != nil {
		return fmt.Errorf("render reference: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return err
	}
	log.Info().Str("path", outPath).Int("commands", len(set.Roots())).Msg("command reference updated")
	return nil
}
