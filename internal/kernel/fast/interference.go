package fast

import "github.com/cwbudde/pixelparity/internal/view"

// InterferenceIncrement adds value to every Int16 statistic element,
// saturating at saturation.
func InterferenceIncrement(statistic *view.View, value uint8, saturation int16) {
	limit := int32(saturation) - int32(value)
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		for x := range s {
			if int32(s[x]) >= limit {
				s[x] = saturation
			} else {
				s[x] += int16(value)
			}
		}
	}
}

// InterferenceIncrementMasked is InterferenceIncrement restricted to
// elements whose mask equals index.
func InterferenceIncrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	limit := int32(saturation) - int32(value)
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		m := mask.Row(y)[:len(s)]
		for x := range s {
			if m[x] != index {
				continue
			}
			if int32(s[x]) >= limit {
				s[x] = saturation
			} else {
				s[x] += int16(value)
			}
		}
	}
}

// InterferenceDecrement subtracts value from every Int16 statistic element,
// saturating at -saturation.
func InterferenceDecrement(statistic *view.View, value uint8, saturation int16) {
	floor := -int32(saturation)
	limit := floor + int32(value)
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		for x := range s {
			if int32(s[x]) <= limit {
				s[x] = int16(floor)
			} else {
				s[x] -= int16(value)
			}
		}
	}
}

// InterferenceDecrementMasked is InterferenceDecrement restricted to
// elements whose mask equals index.
func InterferenceDecrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	floor := -int32(saturation)
	limit := floor + int32(value)
	for y := 0; y < statistic.Height; y++ {
		s := statistic.Row16(y)
		m := mask.Row(y)[:len(s)]
		for x := range s {
			if m[x] != index {
				continue
			}
			if int32(s[x]) <= limit {
				s[x] = int16(floor)
			} else {
				s[x] -= int16(value)
			}
		}
	}
}
