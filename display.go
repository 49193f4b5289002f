package bsm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintResult writes the inputs and the five outputs of one evaluation.
// Prices are green for calls and red for puts.
func PrintResult(w io.Writer, spec OptionSpec, result PricingResult) {
	labelColor := color.New(color.FgCyan).SprintFunc()
	valueColor := color.New(color.FgGreen).SprintFunc()
	if spec.Kind() == Put {
		valueColor = color.New(color.FgRed).SprintFunc()
	}

	fmt.Fprintf(w, "%s %s\n", labelColor("Option:"), spec)
	fmt.Fprintf(w, "%s %d (T=%.6f)\n", labelColor("Days To Maturity:"),
		spec.DaysToMaturity(), spec.TimeToMaturity())
	fmt.Fprintf(w, "%s %s\n", labelColor("Price:"), valueColor(fmt.Sprintf("%.4f", result.Price)))
	fmt.Fprintf(w, "%s %.6f\n", labelColor("Delta:"), result.Delta)
	fmt.Fprintf(w, "%s %.6f\n", labelColor("Gamma:"), result.Gamma)
	fmt.Fprintf(w, "%s %.6f\n", labelColor("Vega:"), result.Vega)
	fmt.Fprintf(w, "%s %.6f\n", labelColor("Theta:"), result.Theta)
}

func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// WriteBatchTable renders batch rows as a text table. Failed rows show the
// error in place of the outputs.
func WriteBatchTable(w io.Writer, rows []BatchRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Type", "Spot", "Strike", "Days", "Sigma",
		"Rate", "Price", "Delta", "Gamma", "Vega", "Theta"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		spec := row.Spec
		line := []string{
			strconv.Itoa(row.Index + 1),
			spec.Kind().String(),
			formatFloat(spec.Spot(), 2),
			formatFloat(spec.Strike(), 2),
			strconv.Itoa(spec.DaysToMaturity()),
			formatFloat(spec.Sigma(), 4),
			formatFloat(spec.Rate(), 4),
		}
		if row.Err != nil {
			line = append(line, row.Err.Error(), "", "", "", "")
		} else {
			line = append(line,
				formatFloat(row.Result.Price, 4),
				formatFloat(row.Result.Delta, 4),
				formatFloat(row.Result.Gamma, 6),
				formatFloat(row.Result.Vega, 4),
				formatFloat(row.Result.Theta, 6))
		}
		table.Append(line)
	}
	table.Render()
}
