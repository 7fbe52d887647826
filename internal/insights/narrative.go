package insights

import (
	"fmt"

	"conceptlab/internal/model"
)

var metricLabels = map[model.Metric]string{
	model.MetricAppeal:            "Appeal",
	model.MetricRelevance:         "Relevance",
	model.MetricBelievability:     "Believability",
	model.MetricUniqueness:        "Uniqueness",
	model.MetricPurchaseIntention: "Purchase intention",
}

func label(m model.Metric) string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

func implications(m model.Metric, mean float64, n int) []string {
	name := label(m)
	switch {
	case n == 0:
		return []string{fmt.Sprintf("%s cannot be assessed without evaluations", name)}
	case mean >= highThreshold:
		return []string{
			fmt.Sprintf("%s is a clear strength (%.1f) and can lead the communication", name, mean),
			fmt.Sprintf("Strong %s supports a broad launch", name),
		}
	case mean <= lowThreshold:
		return []string{
			fmt.Sprintf("%s is a critical weakness (%.1f) that can block adoption", name, mean),
			"Launching without fixing it puts trial and repeat at risk",
		}
	}
	return []string{
		fmt.Sprintf("%s is moderate (%.1f): the concept is not yet differentiated on it", name, mean),
	}
}

func recommendations(m model.Metric, mean float64, n int, drivers, barriers []string) []string {
	name := label(m)
	out := []string{}
	switch {
	case n == 0:
		return out
	case mean >= highThreshold:
		out = append(out, fmt.Sprintf("Protect the elements that drive %s", name))
		if len(drivers) > 0 {
			out = append(out, fmt.Sprintf("Feature this in the messaging: %q", drivers[0]))
		}
	case mean <= lowThreshold:
		out = append(out, fmt.Sprintf("Rework the concept to lift %s before launch", name))
	default:
		out = append(out, fmt.Sprintf("Test variants that move %s above 7", name))
	}
	if mean < highThreshold && len(barriers) > 0 {
		out = append(out, fmt.Sprintf("Address the main barrier: %q", barriers[0]))
	}
	return out
}
