package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/terminal"
)

const stdinLabel = "stdin"

// NewValidateCommand creates the validate command.
func NewValidateCommand(globals *GlobalOptions) *cobra.Command {
	var (
		format  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate an exported document against the export schema",
		Long: `Validate a JSON or YAML document written by render or series.

Files ending in .lz4 are decompressed first. The format follows the file
extension unless --format is given; stdin defaults to JSON.

Examples:
  storypulse validate assigned.json
  storypulse validate assigned.yaml.lz4
  storypulse validate --format yaml - < assigned.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docFormat := export.FormatForPath(args[0])

			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return err
				}

				docFormat = parsed
			}

			doc, label, err := readDocument(cmd.InOrStdin(), args[0], docFormat)
			if err != nil {
				return err
			}

			if globals.Quiet {
				return nil
			}

			termCfg := terminal.NewConfig()
			termCfg.NoColor = termCfg.NoColor || noColor

			_, err = fmt.Fprintln(cmd.OutOrStdout(), termCfg.Colorize(
				fmt.Sprintf("%s is valid: %s view, %s, %d days", label, doc.View, doc.Filter, len(doc.Series)),
				terminal.ColorGreen))
			if err != nil {
				return fmt.Errorf("write validation result: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "document format: json or yaml (default: from the extension)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

// readDocument decodes and validates the document at path, or stdin for "-".
func readDocument(stdin io.Reader, path string, format export.Format) (export.Document, string, error) {
	var (
		data  []byte
		label = path
		err   error
	)

	if path == stdoutTarget {
		label = stdinLabel
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return export.Document{}, "", fmt.Errorf("read %s: %w", label, err)
	}

	if strings.HasSuffix(path, export.Extension) {
		data, err = export.Decompress(bytes.NewReader(data))
		if err != nil {
			return export.Document{}, "", err
		}
	}

	doc, err := export.Decode(bytes.NewReader(data), format)
	if err != nil {
		return export.Document{}, "", fmt.Errorf("%s: %w", label, err)
	}

	return doc, label, nil
}
