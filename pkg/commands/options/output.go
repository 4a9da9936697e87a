package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/store"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
	// Out defaults to color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as a JSON object when --json is set and swallows it;
// otherwise err is returned unchanged. Store failures carry a "kind" of
// not_found, constraint or io so scripts can branch on them.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	out := map[string]string{
		"error": err.Error(),
	}
	if kind := ErrorKind(err); kind != "" {
		out["kind"] = kind
	}
	b, jerr := json.Marshal(out)
	if jerr != nil {
		return jerr
	}
	w := o.Out
	if w == nil {
		w = color.Output
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}

// ErrorKind names the store error class of err, or "" when it has none.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrConstraint):
		return "constraint"
	case errors.Is(err, store.ErrIO):
		return "io"
	}
	return ""
}
