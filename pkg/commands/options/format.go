package options

import (
	"github.com/spf13/cobra"
)

// FormatOptions
type FormatOptions struct {
	Output string
}

func AddFormatArgs(cmd *cobra.Command, o *FormatOptions) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "",
		"Output format. One of 'yaml' or 'json'.")
}
