package kernel

import (
	"image"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/view"
)

func GrowRangeSlow(value, lo, hi *view.View) { active.Load().growRangeSlow(value, lo, hi) }

func GrowRangeFast(value, lo, hi *view.View) { active.Load().growRangeFast(value, lo, hi) }

func IncrementCount(value, loValue, hiValue, loCount, hiCount *view.View) {
	active.Load().incrementCount(value, loValue, hiValue, loCount, hiCount)
}

func AdjustRange(loCount, loValue, hiCount, hiValue *view.View, threshold uint8) {
	active.Load().adjustRange(loCount, loValue, hiCount, hiValue, threshold)
}

func AdjustRangeMasked(loCount, loValue, hiCount, hiValue *view.View, threshold uint8, mask *view.View) {
	active.Load().adjustRangeMasked(loCount, loValue, hiCount, hiValue, threshold, mask)
}

func ShiftRange(value, lo, hi *view.View) { active.Load().shiftRange(value, lo, hi) }

func ShiftRangeMasked(value, lo, hi, mask *view.View) {
	active.Load().shiftRangeMasked(value, lo, hi, mask)
}

func InitMask(src *view.View, index, value uint8, dst *view.View) {
	active.Load().initMask(src, index, value, dst)
}

func InterferenceIncrement(statistic *view.View, value uint8, saturation int16) {
	active.Load().interferenceIncrement(statistic, value, saturation)
}

func InterferenceIncrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	active.Load().interferenceIncrementM(statistic, value, saturation, mask, index)
}

func InterferenceDecrement(statistic *view.View, value uint8, saturation int16) {
	active.Load().interferenceDecrement(statistic, value, saturation)
}

func InterferenceDecrementMasked(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8) {
	active.Load().interferenceDecrementM(statistic, value, saturation, mask, index)
}

// Crc32c computes the CRC-32C (Castagnoli) checksum of data.
func Crc32c(data []byte) uint32 { return active.Load().crc32c(data) }

// DetectionHaarDetect runs the cascade of h over rect; see
// base.DetectionHaarDetect.
func DetectionHaarDetect(h *cascade.Handle, mask *view.View, rect image.Rectangle, dst *view.View) error {
	return active.Load().detectionHaarDetect(h, mask, rect, dst)
}

func HogDirectionHistograms(src *view.View, cellX, cellY, quantization int, histograms []float32) {
	active.Load().hogDirectionHistograms(src, cellX, cellY, quantization, histograms)
}

func OperationBinary8u(a, b, dst *view.View, t base.Binary8uType) {
	active.Load().operationBinary8u(a, b, dst, t)
}

func OperationBinary16i(a, b, dst *view.View, t base.Binary16iType) {
	active.Load().operationBinary16i(a, b, dst, t)
}

func VectorProduct(vertical, horizontal []uint8, dst *view.View) {
	active.Load().vectorProduct(vertical, horizontal, dst)
}

func ResizeBilinear(src, dst *view.View) { active.Load().resizeBilinear(src, dst) }

func ShrinkRegion(mask *view.View, index uint8, rect *image.Rectangle) {
	active.Load().shrinkRegion(mask, index, rect)
}

func FillSingleHoles(mask *view.View, index uint8) { active.Load().fillSingleHoles(mask, index) }

func ChangeIndex(mask *view.View, oldIndex, newIndex uint8) {
	active.Load().changeIndex(mask, oldIndex, newIndex)
}

func Propagate2x2(parent, child, difference *view.View, currentIndex, invalidIndex, emptyIndex, threshold uint8) {
	active.Load().propagate2x2(parent, child, difference, currentIndex, invalidIndex, emptyIndex, threshold)
}

func GetStatistic(src *view.View) (lo, hi, average uint8) { return active.Load().getStatistic(src) }

func GetMoments(mask *view.View, index uint8) base.Moments {
	return active.Load().getMoments(mask, index)
}

func GetRowSums(src *view.View, sums []uint32) { active.Load().getRowSums(src, sums) }

func GetColSums(src *view.View, sums []uint32) { active.Load().getColSums(src, sums) }

func ValueSum(src *view.View) uint64 { return active.Load().valueSum(src) }

func SquareSum(src *view.View) uint64 { return active.Load().squareSum(src) }

func CorrelationSum(a, b *view.View) uint64 { return active.Load().correlationSum(a, b) }

func AbsDifferenceSum(a, b *view.View) uint64 { return active.Load().absDifferenceSum(a, b) }

func SquaredDifferenceSum(a, b *view.View) uint64 {
	return active.Load().squaredDifferenceSum(a, b)
}

func BoostedSaturatedGradient(src *view.View, saturation, boost uint8, dx, dy *view.View) {
	active.Load().boostedSaturatedGradient(src, saturation, boost, dx, dy)
}

func BoostedUv(src *view.View, boost uint8, dst *view.View) { active.Load().boostedUv(src, boost, dst) }

func GetDifferenceSum(src, lo, hi *view.View) int64 { return active.Load().getDifferenceSum(src, lo, hi) }

func PerformCompensation(src *view.View, shift int, dst *view.View) {
	active.Load().performCompensation(src, shift, dst)
}

func BgraToBgr(bgra, bgr *view.View) { active.Load().bgraToBgr(bgra, bgr) }
