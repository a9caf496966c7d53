package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/weavetpl/weave"
)

// validateCmd parses each given template without rendering it, reporting
// every syntax or unresolved-extends error found.
type validateCmd struct {
	Templates []string `arg:"" help:"Template files to validate." type:"existingfile"`
}

func (v *validateCmd) Run(ctx context.Context) error {
	env := weave.NewEnvironment()
	failed := 0
	for _, path := range v.Templates {
		source, err := os.ReadFile(path)
		if err != nil {
			printDiagnostic(err)
			failed++
			continue
		}
		if err := env.AddTemplate(path, string(source)); err != nil {
			printDiagnostic(err)
			failed++
			continue
		}
		fmt.Println(path + ": ok")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d templates failed validation", failed, len(v.Templates))
	}
	return nil
}
