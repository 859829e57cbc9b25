package main

import (
	"errors"
	"math"
)

// Verdict is the outcome of classifying one detection pass worth of sample
// windows.
type Verdict struct {
	Active      bool
	ActiveRatio float64 // fraction of windows at or above the energy threshold
}

var errEmptyBatch = errors.New("classify: empty sample batch")

// classify marks each window active when its RMS energy reaches threshold
// and reports the whole pass active when the active fraction reaches
// sustainedRatio (>= on both comparisons). One loud window can't flip a
// larger batch; noise has to persist across the pass. A batch of one is
// deliberately permissive: its ratio is either 0 or 1.
func classify(batch [][]float64, threshold, sustainedRatio float64) (Verdict, error) {
	if len(batch) == 0 {
		return Verdict{}, errEmptyBatch
	}
	active := 0
	for _, window := range batch {
		if rms(window) >= threshold {
			active++
		}
	}
	ratio := float64(active) / float64(len(batch))
	return Verdict{Active: ratio >= sustainedRatio, ActiveRatio: ratio}, nil
}

// rms is the root-mean-square energy of one window.
func rms(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, s := range window {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(window)))
}
