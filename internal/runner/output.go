package runner

import (
	"fmt"

	"github.com/jacoelho/jpext/internal/canonical"
	"github.com/jacoelho/jpext/internal/template"
)

// write prints one result: the rendered format when set, otherwise the
// canonical JSON value, prefixed by its path and a tab with --paths.
func (r *Runner) write(res Result) error {
	res.Vars = r.config.Variables

	var line string
	if r.format != nil {
		rendered, err := template.Render(r.format, res)
		if err != nil {
			return fmt.Errorf("render format at %s: %w", res.Path, err)
		}
		line = rendered
	} else {
		value, err := canonical.JSON(res.Value)
		if err != nil {
			return fmt.Errorf("encode result at %s: %w", res.Path, err)
		}
		line = string(value)
		if r.config.Paths {
			line = res.Path + "\t" + line
		}
	}

	_, err := fmt.Fprintln(r.output, line)
	return err
}
