package cmd

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/moviestream-ai/moviestream/internal/media"
)

func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "text", "Output format (text, json, yaml)")
}

// writeOutput renders v as JSON or YAML, or calls text for the text format.
func writeOutput(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		// Round trip through JSON so items keep their wire field names.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "text", "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printItems(w io.Writer, items []media.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (nothing found)")
		return
	}
	for _, item := range items {
		info := item.Info()
		fmt.Fprintf(w, "  %-8d %-5s %4.1f  %s\n", info.ID, item.Kind(), info.VoteAverage, item.DisplayTitle())
	}
}
