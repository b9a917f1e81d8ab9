package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/thruflo/curvr/internal/config"
	"github.com/thruflo/curvr/internal/logging"
	"github.com/thruflo/curvr/internal/pipeline"
	"github.com/thruflo/curvr/internal/tui"
)

var (
	calcMeasured   string
	calcPipeRadius string
	calcJSON       bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute the curve radius for one reading",
	Long: `Computes the curve radius for a single sagitta reading without the
interactive calculator. The pipe radius defaults to the configured value.

A missing, zero or non-numeric measurement prints "--" for both radii.`,
	Example: `  curvr calc --measured 5
  curvr calc -m 3.2 -p 12.5 --json`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcMeasured, "measured", "m", "", "measured distance in mm")
	calcCmd.Flags().StringVarP(&calcPipeRadius, "pipe-radius", "p", "", "pipe radius in mm (default from config)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the result as JSON")

	rootCmd.AddCommand(calcCmd)
}

// CalcOutput is the JSON form of a calculation. Absent values are null, and
// so are inputs that overflowed, which JSON cannot represent.
type CalcOutput struct {
	Measured   *float64 `json:"measured"`
	PipeRadius *float64 `json:"pipe_radius"`
	InnerMM    *float64 `json:"inner_mm"`
	OuterMM    *float64 `json:"outer_mm"`
}

func runCalc(cmd *cobra.Command, args []string) error {
	defaultPipe := config.DefaultConfig().Pipe.DefaultRadiusMM
	if loadedConfig != nil {
		defaultPipe = loadedConfig.Pipe.DefaultRadiusMM
	}

	in := pipeline.Inputs{
		Measured:   pipeline.ParseNumeric(calcMeasured),
		PipeRadius: pipeline.Float(defaultPipe),
	}
	if cmd.Flags().Changed("pipe-radius") {
		in.PipeRadius = pipeline.ParseNumeric(calcPipeRadius)
	}

	return writeCalc(cmd.OutOrStdout(), in, calcJSON)
}

func writeCalc(w io.Writer, in pipeline.Inputs, asJSON bool) error {
	res := pipeline.Derive(in)
	logging.Debug("calculated",
		"measured", in.Measured,
		"pipe_radius", in.PipeRadius,
		"inner", res.Inner,
		"outer", res.Outer)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(CalcOutput{
			Measured:   finiteOrNil(in.Measured),
			PipeRadius: finiteOrNil(in.PipeRadius),
			InnerMM:    res.Inner,
			OuterMM:    res.Outer,
		}); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	fmt.Fprintln(w, tui.Title)
	fmt.Fprintf(w, "  %-24s %s\n", tui.LabelInner+":", tui.FormatMillimeters(res.Inner))
	fmt.Fprintf(w, "  %-24s %s\n", tui.LabelOuter+":", tui.FormatMillimeters(res.Outer))
	return nil
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
