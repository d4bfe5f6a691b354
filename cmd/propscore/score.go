package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"propscout_backend/internal/analysis/service"
	"propscout_backend/internal/analysis/transport"
	"propscout_backend/platform/apperr"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/validator"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// propertyFile is either a single property or a list under "items".
type propertyFile struct {
	Items []transport.ScoreRequest `yaml:"items"`
}

func newScoreCmd() *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score the properties in a YAML or JSON file",
		Long: `Score one property or a list of properties read from a file.

The file holds either a single property or a list under "items", using the
same field names as the HTTP API. Use "-" to read from stdin.

Examples:
  propscore score --file listing.yaml
  propscore score --file batch.json --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown format %q (want table or json)", format)
			}

			raw, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			items, err := parseProperties(raw)
			if err != nil {
				return err
			}

			resp, err := scoreProperties(cmd.Context(), items, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return writeScoreTable(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON file with properties (- for stdin)")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format (table|json)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return raw, nil
}

// parseProperties decodes YAML, which also accepts JSON documents.
func parseProperties(raw []byte) ([]transport.ScoreRequest, error) {
	var batch propertyFile
	if err := yaml.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if len(batch.Items) > 0 {
		return batch.Items, nil
	}

	var single transport.ScoreRequest
	if err := yaml.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("parse property: %w", err)
	}
	if single.City == "" && single.Price == 0 {
		return nil, fmt.Errorf("no properties found in input")
	}
	return []transport.ScoreRequest{single}, nil
}

func scoreProperties(ctx context.Context, items []transport.ScoreRequest, logOut io.Writer) (*transport.BatchScoreResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	val := validator.New()
	if err := transport.RegisterValidations(val); err != nil {
		return nil, err
	}
	svc := service.New(val, logger.NewWithWriter("production", logOut))

	out := &transport.BatchScoreResponse{Results: make([]transport.ScoreResponse, 0, len(items))}
	for start := 0; start < len(items); start += transport.MaxBatchSize {
		end := min(start+transport.MaxBatchSize, len(items))

		resp, err := svc.ScoreBatch(ctx, transport.BatchScoreRequest{Items: items[start:end]})
		if err != nil {
			if len(items) > transport.MaxBatchSize {
				return nil, fmt.Errorf("items %d-%d: %w", start+1, end, describeError(err))
			}
			return nil, describeError(err)
		}
		out.Results = append(out.Results, resp.Results...)
	}
	out.Count = len(out.Results)
	return out, nil
}

func describeError(err error) error {
	domainErr, ok := apperr.As(err)
	if !ok {
		return err
	}
	details, ok := domainErr.Details.(map[string]string)
	if !ok || len(details) == 0 {
		return err
	}

	fields := make([]string, 0, len(details))
	for field, rule := range details {
		fields = append(fields, field+" ("+rule+")")
	}
	sort.Strings(fields)
	return fmt.Errorf("%s: %s", domainErr.Message, strings.Join(fields, ", "))
}

func writeScoreTable(w io.Writer, resp *transport.BatchScoreResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CITY\tPRICE\tOVERALL\tINVEST\tVALUE\tHOOD\tRENT\tGROSS%\tNET%\tCASHFLOW\tWWS\tMAX RENT\tBAND\t")
	for _, r := range resp.Results {
		a := r.Analysis
		maxRent := "free"
		if a.WWSMaxRent > 0 {
			maxRent = fmt.Sprintf("%d", a.WWSMaxRent)
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%d\t%d\t%s\t%s\t\n",
			r.Property.City, r.Property.Price,
			a.OverallScore, a.InvestmentScore, a.ValueScore, a.NeighborhoodScore,
			a.EstimatedMonthlyRent, a.GrossYieldPct, a.NetYieldPct, a.MonthlyCashflow,
			a.WWSScore, maxRent, a.ScoreBand)
	}
	return tw.Flush()
}
