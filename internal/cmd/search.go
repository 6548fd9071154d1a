package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nexus-sus/nexus/internal/config"
	"github.com/nexus-sus/nexus/internal/errors"
	"github.com/nexus-sus/nexus/internal/search"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var searchCmd = &cobra.Command{
	Use:   "search <UF>",
	Short: "Look up a state once and print the result",
	Long: `Look up the reference values for a state code and print them.

The code is trimmed and uppercased before validation, so "sp" and " SP "
are equivalent. Exactly one request is made for a valid code.

Exit status is non-zero when the code is invalid, the service rate limits
the request, or the service cannot be reached. A state with no data is not
an error.

Examples:
  nexus search sp
  nexus search RJ --output json
  nexus search am -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchOutput string

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "text", "Output format: text, json, yaml")
}

// searchResult is the machine-readable form of a settled search.
type searchResult struct {
	Status  string         `json:"status" yaml:"status"`
	Data    *search.Record `json:"data,omitempty" yaml:"data,omitempty"`
	UF      string         `json:"uf,omitempty" yaml:"uf,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

func newSearchResult(state search.ViewState) searchResult {
	if state.Phase == search.PhaseResult && state.Outcome != nil {
		return searchResult{
			Status: state.Outcome.Status,
			Data:   state.Outcome.Record,
			UF:     state.Outcome.Code,
		}
	}
	return searchResult{Status: "error", Message: state.Message}
}

func runSearch(cmd *cobra.Command, args []string) error {
	switch searchOutput {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q: expected text, json or yaml", searchOutput)
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	logger := createLogger(cfg)
	defer func() { _ = logger.Close() }()

	client, err := search.NewHTTPClientFromConfig(cfg.API, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create lookup client")
	}

	state := search.NewController(logger).Run(cmd.Context(), client, args[0])

	out := cmd.OutOrStdout()
	switch searchOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newSearchResult(state)); err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(newSearchResult(state)); err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
	default:
		if state.Phase == search.PhaseResult {
			printOutcome(out, state.Outcome)
		}
	}

	if state.Phase == search.PhaseError {
		return fmt.Errorf("%s", state.Message)
	}
	return nil
}

// printOutcome renders a settled lookup as plain text.
func printOutcome(w io.Writer, out *search.Outcome) {
	if out.Kind == search.NotFound {
		fmt.Fprintln(w, search.NotFoundMessage(out.Code))
		return
	}

	rec := out.Record
	fmt.Fprintf(w, "%s · %s\n", rec.Estado, rec.Regiao)
	fmt.Fprintf(w, "  Valor UF:      %s\n", search.FormatMoney(rec.VlUF))
	fmt.Fprintf(w, "  Valor Região:  %s\n", search.FormatMoney(rec.VlRegiao))
	fmt.Fprintf(w, "  Valor Brasil:  %s\n", search.FormatMoney(rec.VlBrasil))
	fmt.Fprintf(w, "  Competência:   %s\n", rec.DtCompetencia)
	if rec.DtAtualizacao != "" {
		fmt.Fprintf(w, "  Atualizado em: %s\n", rec.DtAtualizacao)
	}
}
