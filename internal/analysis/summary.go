package analysis

import (
	"fmt"
	"strings"

	"statkit/domain/stats"
)

// interpretTest renders the one-sentence reading of an omnibus result
func interpretTest(testType stats.TestType, significant bool, effect stats.EffectSize) string {
	name := testType.DisplayName()
	if significant {
		return fmt.Sprintf("%s found a statistically significant difference (p < alpha). Effect size is %s.", name, effect.Magnitude)
	}
	return fmt.Sprintf("%s found no statistically significant difference (p >= alpha).", name)
}

// BuildSummary produces the free-text narrative for a finished analysis:
// group counts, the selected test with its statistic and p-value, the
// interpretation, and any post-hoc pairs that survived correction.
func BuildSummary(samples []stats.Sample, test stats.TestResult, postHoc *stats.PostHocResult) string {
	total := 0
	for _, s := range samples {
		total += len(s.Values)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d groups with %d total observations.\n", len(samples), total)
	fmt.Fprintf(&b, "Test used: %s\n", test.TestType.DisplayName())
	fmt.Fprintf(&b, "Test statistic: %s, p-value: %s\n", formatStat(test.Statistic), formatStat(test.PValue))
	fmt.Fprintf(&b, "Result: %s\n", test.Interpretation)

	if postHoc != nil {
		var pairs []string
		for _, c := range postHoc.Comparisons {
			if c.Significant {
				pairs = append(pairs, fmt.Sprintf("%s vs %s", c.Group1, c.Group2))
			}
		}
		if len(pairs) > 0 {
			fmt.Fprintf(&b, "\nPost-hoc (%s) pairs with significant differences:\n", postHoc.Method)
			for _, p := range pairs {
				fmt.Fprintf(&b, "  - %s\n", p)
			}
		}
	}

	return b.String()
}

func formatStat(v stats.OptionalFloat) string {
	if f, ok := v.Float(); ok {
		return fmt.Sprintf("%.4f", f)
	}
	return "undefined"
}
