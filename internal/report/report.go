package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statkit/domain/stats"
)

// Generator renders a finished analysis as a markdown document and,
// from that, as standalone HTML.
type Generator struct{}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Markdown renders the full analysis report
func (g *Generator) Markdown(result *stats.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis Report\n\n")
	fmt.Fprintf(&b, "Analysis ID: `%s`  \n", result.ID)
	fmt.Fprintf(&b, "Created: %s\n\n", result.CreatedAt)

	g.writeDescriptive(&b, result.Descriptive)
	g.writeNormality(&b, result.Normality)
	g.writeHomogeneity(&b, result.Homogeneity)
	g.writeTest(&b, result.Test)
	if result.PostHoc != nil {
		g.writePostHoc(&b, result.PostHoc)
	}

	fmt.Fprintf(&b, "## Summary\n\n")
	for _, line := range strings.Split(strings.TrimRight(result.Summary, "\n"), "\n") {
		fmt.Fprintf(&b, "%s  \n", line)
	}

	return b.String()
}

// HTML renders the markdown report as an HTML fragment
func (g *Generator) HTML(result *stats.AnalysisResult) []byte {
	md := []byte(g.Markdown(result))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

func (g *Generator) writeDescriptive(b *strings.Builder, summaries []stats.DescriptiveSummary) {
	fmt.Fprintf(b, "## Descriptive Statistics\n\n")
	fmt.Fprintf(b, "| Group | N | Mean | Median | Std | Min | Max | CI Lower | CI Upper |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range summaries {
		fmt.Fprintf(b, "| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %s | %s |\n",
			s.Label, s.N, s.Mean, s.Median, s.Std,
			s.Min, s.Max, formatOptional(s.CILower), formatOptional(s.CIUpper))
	}
	fmt.Fprintf(b, "\n")
}

func (g *Generator) writeNormality(b *strings.Builder, report stats.NormalityReport) {
	fmt.Fprintf(b, "## Normality\n\n")
	fmt.Fprintf(b, "| Group | Test | Statistic | p-value | Normal |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|\n")
	for _, r := range report.Results {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %t |\n",
			r.Label, r.Test, formatOptional(r.Statistic), formatOptional(r.PValue), r.IsNormal)
	}
	fmt.Fprintf(b, "\nAll groups normal: **%t**\n\n", report.AllNormal)
}

func (g *Generator) writeHomogeneity(b *strings.Builder, report stats.HomogeneityReport) {
	fmt.Fprintf(b, "## Homogeneity of Variance\n\n")
	if report.Levene != nil {
		fmt.Fprintf(b, "- Levene: statistic %s, p %s\n",
			formatOptional(report.Levene.Statistic), formatOptional(report.Levene.PValue))
	}
	if report.Bartlett != nil {
		fmt.Fprintf(b, "- Bartlett: statistic %s, p %s\n",
			formatOptional(report.Bartlett.Statistic), formatOptional(report.Bartlett.PValue))
	}
	fmt.Fprintf(b, "- Equal variance: **%t**\n", report.EqualVariance)
	fmt.Fprintf(b, "- %s\n\n", report.Recommendation)
}

func (g *Generator) writeTest(b *strings.Builder, test stats.TestResult) {
	fmt.Fprintf(b, "## Hypothesis Test\n\n")
	fmt.Fprintf(b, "- Test: **%s**\n", test.TestName)
	fmt.Fprintf(b, "- Statistic: %s\n", formatOptional(test.Statistic))
	fmt.Fprintf(b, "- p-value: %s\n", formatOptional(test.PValue))
	fmt.Fprintf(b, "- Significant: **%t**\n", test.Significant)
	fmt.Fprintf(b, "- Effect size: %s\n", test.EffectSize.Interpretation)
	fmt.Fprintf(b, "- %s\n\n", test.Interpretation)
}

func (g *Generator) writePostHoc(b *strings.Builder, postHoc *stats.PostHocResult) {
	fmt.Fprintf(b, "## Post-Hoc Comparisons (%s)\n\n", postHoc.Method)
	fmt.Fprintf(b, "Bonferroni-corrected alpha per pair: %.5f\n\n", postHoc.BonferroniAlpha)
	fmt.Fprintf(b, "| Group 1 | Group 2 | Mean Diff | p | Adjusted p | Significant |\n")
	fmt.Fprintf(b, "|---|---|---|---|---|---|\n")
	for _, c := range postHoc.Comparisons {
		fmt.Fprintf(b, "| %s | %s | %.4f | %s | %s | %t |\n",
			c.Group1, c.Group2, c.MeanDiff,
			formatOptional(c.PValue), formatOptional(c.AdjustedP), c.Significant)
	}
	fmt.Fprintf(b, "\n")
}

func formatOptional(v stats.OptionalFloat) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("%.4f", f)
	}
	return "n/a"
}
