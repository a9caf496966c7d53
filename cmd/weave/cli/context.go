package cli

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// loadContext reads a JSON or YAML context document from path (or stdin,
// for path == "-"), returning nil when path is "" or the input is empty.
// yaml.v3 parses JSON as a YAML subset, so one reader handles both.
func loadContext(path string) (any, error) {
	if path == "" {
		return nil, nil
	}

	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var ctx any
	if err := yaml.Unmarshal(raw, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}
