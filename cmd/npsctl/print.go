package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/soaringjerry/npspulse/internal/services"
	"github.com/soaringjerry/npspulse/internal/utils"
)

func printReport(w io.Writer, lang string, rep *services.Report, summary *services.AnalyticsSummary) {
	if !rep.HasData {
		fmt.Fprintln(w, utils.T(lang, "report.no_data"))
		return
	}
	fmt.Fprintf(w, "Net Promoter Score: %.2f%%\n", rep.NPS)
	c := rep.Counts
	fmt.Fprintf(w, "Responses: %d (promoters %d, passives %d, detractors %d)\n",
		c.Total, c.Promoters, c.Passives, c.Detractors)
	if summary != nil {
		fmt.Fprintln(w, "Score distribution:")
		for score, n := range summary.Histogram {
			fmt.Fprintf(w, "  %2d | %-20s %d\n", score, strings.Repeat("#", min(n, 20)), n)
		}
	}
	fmt.Fprintln(w)
	printInsight(w, *rep.Insight)
}

func printInsight(w io.Writer, in services.Insight) {
	fmt.Fprintf(w, "Interpretation: %s (%s)\n", in.Interpretation, in.ScoreRange)
	fmt.Fprintln(w, "Recommendations:")
	for _, rec := range in.Recommendations {
		fmt.Fprintf(w, "- %s\n", rec)
	}
}
