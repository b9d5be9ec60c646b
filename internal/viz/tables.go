package viz

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/odestep/internal/dynamo"
	"github.com/san-kum/odestep/internal/experiment"
	"github.com/san-kum/odestep/internal/storage"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func RunsTable(w io.Writer, runs []storage.RunMetadata) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs found")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMODEL\tMETHOD\tTIME\tINTERVAL\tSTEP\tSAMPLES\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t[%g, %g]\t%g\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Lo, run.Hi,
			run.Step,
			run.Samples,
			status,
		)
	}
	return tw.Flush()
}

// RunSummary prints the metadata and metrics of one run.
func RunSummary(w io.Writer, meta storage.RunMetadata, final dynamo.Sample) {
	fmt.Fprintln(w, Heading(fmt.Sprintf("%s / %s", meta.Model, meta.Method)))
	if meta.ID != "" {
		fmt.Fprintln(w, KeyValue("run id", meta.ID))
	}
	fmt.Fprintln(w, KeyValue("interval", fmt.Sprintf("[%g, %g]", meta.Lo, meta.Hi)))
	fmt.Fprintln(w, KeyValue("step", fmt.Sprintf("%g", meta.Step)))
	fmt.Fprintln(w, KeyValue("samples", fmt.Sprintf("%d", meta.Samples)))
	fmt.Fprintln(w, KeyValue("evals", fmt.Sprintf("%d", meta.Evals)))
	fmt.Fprintln(w, KeyValue("elapsed", meta.Elapsed.String()))
	fmt.Fprintln(w, KeyValue("final t", fmt.Sprintf("%.10g", final.T)))
	fmt.Fprintln(w, KeyValue("final x", FormatState(final.X)))
	if meta.Error != "" {
		fmt.Fprintln(w, StatusFailed.Render("error: "+meta.Error))
	}

	if len(meta.Metrics) > 0 {
		fmt.Fprintln(w, "\nmetrics:")
		names := make([]string, 0, len(meta.Metrics))
		for name := range meta.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %.6g\n", name, meta.Metrics[name])
		}
	}
}

func FormatState(x dynamo.State) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf("%.10g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func BenchTable(w io.Writer, results []experiment.BenchResult) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "METHOD\tORDER\tSTEPS\tEVALS\tTIME\tEVALS/SEC\tMAX ERROR")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%v\t-\terror: %v\n", r.Method, r.Order, r.Samples-1, r.Evals, r.Elapsed, r.Err)
			continue
		}
		rate := 0.0
		if r.Elapsed > 0 {
			rate = float64(r.Evals) / r.Elapsed.Seconds()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%v\t%.0f\t%.3e\n",
			r.Method, r.Order, r.Samples-1, r.Evals, r.Elapsed, rate, r.MaxError)
	}
	return tw.Flush()
}

func OrderTable(w io.Writer, rows []experiment.OrderRow) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "STEP\tERROR\tRATIO\tOBSERVED ORDER")
	for i, r := range rows {
		if i == 0 || r.Ratio == 0 {
			fmt.Fprintf(tw, "%g\t%.3e\t-\t-\n", r.Step, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%g\t%.3e\t%.3f\t%.3f\n", r.Step, r.Error, r.Ratio, r.Observed)
	}
	return tw.Flush()
}

// ErrorCurve charts log10 of the errors of an order study.
func ErrorCurve(rows []experiment.OrderRow, width, height int) string {
	data := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.Error > 0 {
			data = append(data, math.Log10(r.Error))
		}
	}
	if len(data) < 2 {
		return ""
	}
	return PlotSeries(data, "log10(error) as the step halves", width, height)
}

func MethodsTable(w io.Writer, methods []experiment.MethodEntry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tORDER\tDESCRIPTION")
	for _, m := range methods {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Name, m.Order, m.Description)
	}
	return tw.Flush()
}

func ModelsTable(w io.Writer, entries []experiment.ModelEntry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tDIM\tEXACT\tPARAMS\tPRESETS\tDESCRIPTION")
	for _, e := range entries {
		keys := make([]string, 0, len(e.Params))
		for k := range e.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		params := make([]string, len(keys))
		for i, k := range keys {
			params[i] = fmt.Sprintf("%s=%g", k, e.Params[k])
		}
		exact := "-"
		if e.Analytic {
			exact = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			e.Name, e.Dim, exact, strings.Join(params, " "), strings.Join(e.Presets, ","), e.Description)
	}
	return tw.Flush()
}
