package export

import (
	"gonum.org/v1/gonum/stat"

	"annotator/internal/segment"
)

// ClassCoverage reports how much of the image one class channel occupies.
type ClassCoverage struct {
	ClassID  int     `json:"class_id"`
	Pixels   int     `json:"pixels"`
	Fraction float64 `json:"fraction"`
}

// Report summarizes per-class pixel coverage of a tensor.
type Report struct {
	Classes []ClassCoverage `json:"classes"`

	// Mean and StdDev of the coverage fractions across classes.
	MeanFraction   float64 `json:"mean_fraction"`
	StdDevFraction float64 `json:"stddev_fraction"`
}

// CoverageReport computes per-class coverage for a built tensor.
func CoverageReport(t *segment.Tensor, classOrder []int) Report {
	var report Report
	total := float64(t.H * t.W)

	fractions := make([]float64, 0, len(t.Channels))
	for ch, bm := range t.Channels {
		classID := ch
		if ch < len(classOrder) {
			classID = classOrder[ch]
		}
		pixels := bm.Count()
		fraction := 0.0
		if total > 0 {
			fraction = float64(pixels) / total
		}
		report.Classes = append(report.Classes, ClassCoverage{
			ClassID:  classID,
			Pixels:   pixels,
			Fraction: fraction,
		})
		fractions = append(fractions, fraction)
	}

	if len(fractions) > 0 {
		report.MeanFraction = stat.Mean(fractions, nil)
		if len(fractions) > 1 {
			report.StdDevFraction = stat.StdDev(fractions, nil)
		}
	}
	return report
}
