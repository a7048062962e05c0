package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"farmvibe/internal/classifier"
	"farmvibe/internal/resolver"
)

type classifyOutput struct {
	Category   classifier.Category   `json:"category"`
	Source     resolver.Source       `json:"source"`
	Reason     string                `json:"reason"`
	Descriptor classifier.Descriptor `json:"descriptor"`
}

func newClassifyCommand() *cobra.Command {
	var useAI bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Resolve a farm vibe from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			mode := resolver.ModeStatic
			if useAI {
				mode = resolver.ModeGenerative
			}
			// the artificial delay only makes sense for the web UI
			r := a.resolverWithoutDelay()

			result, err := r.Resolve(cmd.Context(), strings.Join(args, " "), mode)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&useAI, "ai", false, "ask the configured language model first")
	return cmd
}

func writeResult(w io.Writer, result resolver.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(classifyOutput{
		Category:   result.Category,
		Source:     result.Source,
		Reason:     result.Reason,
		Descriptor: result.Descriptor,
	}); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
