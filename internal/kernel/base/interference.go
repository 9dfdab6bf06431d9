package base

import "github.com/cwbudde/pixelparity/internal/view"

// InterferenceIncrement adds value to every Int16 statistic element,
// saturating at saturation.
func InterferenceIncrement(statistic *view.View, value uint8, saturation int16) {
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		for x := range s {
			s[x] = int16(min(int(s[x])+int(value), int(saturation)))
		}
	}
}

// InterferenceIncrementMasked is InterferenceIncrement restricted to
// elements whose mask equals index.
func InterferenceIncrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	for y := 0; y < statistic.Height; y++ {
		s, m := statistic.Row16(y), mask.Row(y)
		for x := range s {
			if m[x] == index {
				s[x] = int16(min(int(s[x])+int(value), int(saturation)))
			}
		}
	}
}

// InterferenceDecrement subtracts value from every Int16 statistic element,
// saturating at -saturation.
func InterferenceDecrement(statistic *view.View, value uint8, saturation int16) {
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		for x := range s {
			s[x] = int16(max(int(s[x])-int(value), -int(saturation)))
		}
	}
}

// InterferenceDecrementMasked is InterferenceDecrement restricted to
// elements whose mask equals index.
func InterferenceDecrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	for y := 0; y < statistic.Height; y++ {
		s, m := statistic.Row16(y), mask.Row(y)
		for x := range s {
			if m[x] == index {
				s[x] = int16(max(int(s[x])-int(value), -int(saturation)))
			}
		}
	}
}
