package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/internal/analysis"
	"statkit/internal/testkit"
)

func TestMarkdownReportSections(t *testing.T) {
	request, err := testkit.IrisRequest()
	require.NoError(t, err)

	result, err := analysis.NewEngine(nil).Analyze(context.Background(), request)
	require.NoError(t, err)

	md := NewGenerator().Markdown(result)

	assert.Contains(t, md, "# Analysis Report")
	assert.Contains(t, md, "## Descriptive Statistics")
	assert.Contains(t, md, "## Normality")
	assert.Contains(t, md, "## Homogeneity of Variance")
	assert.Contains(t, md, "## Hypothesis Test")
	assert.Contains(t, md, "## Post-Hoc Comparisons (Games-Howell)")
	assert.Contains(t, md, "## Summary")

	assert.Contains(t, md, "| Setosa |")
	assert.Contains(t, md, "| Versicolor |")
	assert.Contains(t, md, "| Virginica |")
	assert.Contains(t, md, "Welch's ANOVA")
}

func TestMarkdownUndefinedValuesRenderAsNA(t *testing.T) {
	request, err := testkit.NewRequest([][]float64{{5, 5, 5, 5, 5}}, nil)
	require.NoError(t, err)

	result, err := analysis.NewEngine(nil).Analyze(context.Background(), request)
	require.NoError(t, err)

	md := NewGenerator().Markdown(result)

	assert.Contains(t, md, "n/a")
	assert.NotContains(t, md, "NaN")
}

func TestMarkdownOmitsPostHocForTwoGroups(t *testing.T) {
	request, err := testkit.NewRequest([][]float64{
		append([]float64(nil), testkit.ReferenceGroup1...),
		append([]float64(nil), testkit.ReferenceGroup2...),
	}, nil)
	require.NoError(t, err)

	result, err := analysis.NewEngine(nil).Analyze(context.Background(), request)
	require.NoError(t, err)

	md := NewGenerator().Markdown(result)
	assert.NotContains(t, md, "## Post-Hoc Comparisons")
}

func TestHTMLReportRendersTables(t *testing.T) {
	request, err := testkit.IrisRequest()
	require.NoError(t, err)

	result, err := analysis.NewEngine(nil).Analyze(context.Background(), request)
	require.NoError(t, err)

	page := string(NewGenerator().HTML(result))

	assert.Contains(t, page, "<h1>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<strong>")
	assert.True(t, strings.Contains(page, "Setosa"))
}
