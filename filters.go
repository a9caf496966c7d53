package weave

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/iancoleman/strcase"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// registerDomainFilters wires filters that exercise the wider text,
// color and markup ecosystem rather than the inja-compatible core the
// renderer handles by OperationID (defaults.go). These are ordinary
// host callbacks: the registry carries them as OpCallback entries.
func registerDomainFilters(reg *registry.Registry) {
	reg.Register("title", 1, registry.Entry{Op: registry.OpCallback, Call: filterTitle})

	reg.Register("ljust", 2, registry.Entry{Op: registry.OpCallback, Call: filterLjust})
	reg.Register("rjust", 2, registry.Entry{Op: registry.OpCallback, Call: filterRjust})
	reg.Register("center", 2, registry.Entry{Op: registry.OpCallback, Call: filterCenter})
	reg.Register("truncate", 2, registry.Entry{Op: registry.OpCallback, Call: filterTruncate})
	reg.Register("truncate", 3, registry.Entry{Op: registry.OpCallback, Call: filterTruncate})

	reg.Register("wordcount", 1, registry.Entry{Op: registry.OpCallback, Call: filterWordcount})
	reg.Register("truncatewords", 2, registry.Entry{Op: registry.OpCallback, Call: filterTruncatewords})
	reg.Register("wordwrap", 2, registry.Entry{Op: registry.OpCallback, Call: filterWordwrap})

	reg.Register("snakecase", 1, registry.Entry{Op: registry.OpCallback, Call: filterSnakecase})
	reg.Register("camelcase", 1, registry.Entry{Op: registry.OpCallback, Call: filterCamelcase})
	reg.Register("kebabcase", 1, registry.Entry{Op: registry.OpCallback, Call: filterKebabcase})

	reg.Register("colormix", 3, registry.Entry{Op: registry.OpCallback, Call: filterColormix})

	reg.Register("to_yaml", 1, registry.Entry{Op: registry.OpCallback, Call: filterToYAML})
	reg.Register("from_yaml", 1, registry.Entry{Op: registry.OpCallback, Call: filterFromYAML})

	reg.Register("markdown", 1, registry.Entry{Op: registry.OpCallback, Call: filterMarkdown})
}

var titleCaser = cases.Title(language.Und)

func filterTitle(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	return value.FromString(titleCaser.String(s)), nil
}

func filterLjust(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	width, _ := args[1].AsInt()
	pad := int(width) - runewidth.StringWidth(s)
	if pad <= 0 {
		return value.FromString(s), nil
	}
	return value.FromString(s + strings.Repeat(" ", pad)), nil
}

func filterRjust(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	width, _ := args[1].AsInt()
	pad := int(width) - runewidth.StringWidth(s)
	if pad <= 0 {
		return value.FromString(s), nil
	}
	return value.FromString(strings.Repeat(" ", pad) + s), nil
}

func filterCenter(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	width, _ := args[1].AsInt()
	pad := int(width) - runewidth.StringWidth(s)
	if pad <= 0 {
		return value.FromString(s), nil
	}
	left := pad / 2
	right := pad - left
	return value.FromString(strings.Repeat(" ", left) + s + strings.Repeat(" ", right)), nil
}

func filterTruncate(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	width, _ := args[1].AsInt()
	suffix := "..."
	if len(args) > 2 {
		suffix, _ = args[2].AsString()
	}
	if runewidth.StringWidth(s) <= int(width) {
		return value.FromString(s), nil
	}
	return value.FromString(runewidth.Truncate(s, int(width), suffix)), nil
}

func filterWordcount(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	count := 0
	seg := words.FromBytes([]byte(s))
	for seg.Next() {
		if isWordlike(seg.Value()) {
			count++
		}
	}
	return value.FromInt(int64(count)), nil
}

func isWordlike(tok []byte) bool {
	for _, r := range string(tok) {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return true
		}
	}
	return false
}

func filterTruncatewords(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	n, _ := args[1].AsInt()
	var out []string
	count := int64(0)
	seg := words.FromBytes([]byte(s))
	for seg.Next() && count < n {
		tok := string(seg.Value())
		out = append(out, tok)
		if isWordlike(seg.Value()) {
			count++
		}
	}
	joined := strings.Join(out, "")
	if count >= n && seg.Next() {
		joined += "..."
	}
	return value.FromString(strings.TrimRight(joined, " \t\n")), nil
}

// filterWordwrap wraps s to width columns, breaking only at word
// boundaries and measuring columns with grapheme clusters so combining
// marks and wide runes don't throw the wrap off.
func filterWordwrap(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	width, _ := args[1].AsInt()
	if width <= 0 {
		return value.FromString(s), nil
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	seg := words.FromBytes([]byte(s))
	for seg.Next() {
		tok := string(seg.Value())
		tokWidth := uniseg.StringWidth(tok)
		if lineWidth+tokWidth > int(width) && lineWidth > 0 {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
			lineWidth = 0
			if strings.TrimSpace(tok) == "" {
				continue
			}
		}
		line.WriteString(tok)
		lineWidth += tokWidth
	}
	if line.Len() > 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return value.FromString(strings.Join(lines, "\n")), nil
}

func filterSnakecase(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	return value.FromString(strcase.ToSnake(s)), nil
}

func filterCamelcase(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	return value.FromString(strcase.ToLowerCamel(s)), nil
}

func filterKebabcase(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	return value.FromString(strcase.ToKebab(s)), nil
}

// filterColormix blends two hex colors (e.g. "#ff0000") in HSV space by
// fraction t, used for generated theme palettes.
func filterColormix(args []value.Value) (value.Value, error) {
	hex1, _ := args[0].AsString()
	hex2, _ := args[1].AsString()
	t, _ := args[2].AsFloat()
	c1, err := colorful.Hex(hex1)
	if err != nil {
		return value.Null(), fmt.Errorf("colormix: invalid color %q: %w", hex1, err)
	}
	c2, err := colorful.Hex(hex2)
	if err != nil {
		return value.Null(), fmt.Errorf("colormix: invalid color %q: %w", hex2, err)
	}
	return value.FromString(c1.BlendHsv(c2, t).Clamped().Hex()), nil
}

func filterToYAML(args []value.Value) (value.Value, error) {
	out, err := yaml.Marshal(args[0].ToAny())
	if err != nil {
		return value.Null(), fmt.Errorf("to_yaml: %w", err)
	}
	return value.FromString(string(out)), nil
}

func filterFromYAML(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	var decoded any
	if err := yaml.Unmarshal([]byte(s), &decoded); err != nil {
		return value.Null(), fmt.Errorf("from_yaml: %w", err)
	}
	return value.FromAny(decoded), nil
}

func filterMarkdown(args []value.Value) (value.Value, error) {
	s, _ := args[0].AsString()
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return value.Null(), fmt.Errorf("markdown: %w", err)
	}
	return value.FromString(buf.String()), nil
}
