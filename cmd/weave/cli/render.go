package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/weavetpl/weave"
)

// renderCmd renders a single template to stdout (or a file), the default
// one-shot action of this CLI.
type renderCmd struct {
	Template string `arg:""                               help:"Template file to render."            type:"existingfile"`
	Dir      string `                short:"d"             help:"Template directory (for extends/include resolution)."`
	Context  string `                short:"c" default:""  help:"JSON/YAML context file, or '-' for stdin."`
	Output   string `                short:"o" default:"-" help:"Output file, or '-' for stdout."`
	Graceful bool   `                                       help:"Recover from missing variables and type errors instead of aborting."`
}

func (r *renderCmd) Run(ctx context.Context) error {
	env := weave.NewEnvironment()
	if r.Graceful {
		env.SetGraceful(true)
	}

	name := filepath.Base(r.Template)
	if r.Dir != "" {
		if err := env.AddTemplateDir(r.Dir); err != nil {
			return err
		}
		rel, err := filepath.Rel(r.Dir, r.Template)
		if err == nil {
			name = filepath.ToSlash(rel)
		}
	} else {
		source, err := os.ReadFile(r.Template)
		if err != nil {
			return err
		}
		if err := env.AddTemplate(name, string(source)); err != nil {
			printDiagnostic(err)
			return err
		}
	}

	tmpl, err := env.GetTemplate(name)
	if err != nil {
		printDiagnostic(err)
		return err
	}

	ctxVal, err := loadContext(r.Context)
	if err != nil {
		return err
	}

	out, err := tmpl.Render(ctxVal)
	if err != nil {
		printDiagnostic(err)
		return err
	}

	if r.Output == "-" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(r.Output, []byte(out), 0o644)
}
