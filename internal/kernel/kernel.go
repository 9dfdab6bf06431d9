// Package kernel exposes the dispatched kernels: every function forwards to
// the backend selected at init from the CPU features of the host.
//
// Backends:
//   - base: portable reference loops (internal/kernel/base)
//   - fast: word-at-a-time, unrolled and table driven loops with the
//     hardware CRC of hash/crc32 (internal/kernel/fast)
package kernel

import (
	"image"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/cwbudde/pixelparity/internal/cascade"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
	"github.com/cwbudde/pixelparity/internal/view"
)

// Backend identifies a kernel implementation set.
type Backend int

const (
	BackendBase Backend = iota
	BackendFast
)

func (b Backend) String() string {
	switch b {
	case BackendBase:
		return "base"
	case BackendFast:
		return "fast"
	default:
		return "unknown"
	}
}

// table is one complete implementation set.
type table struct {
	growRangeSlow            func(value, lo, hi *view.View)
	growRangeFast            func(value, lo, hi *view.View)
	incrementCount           func(value, loValue, hiValue, loCount, hiCount *view.View)
	adjustRange              func(loCount, loValue, hiCount, hiValue *view.View, threshold uint8)
	adjustRangeMasked        func(loCount, loValue, hiCount, hiValue *view.View, threshold uint8, mask *view.View)
	shiftRange               func(value, lo, hi *view.View)
	shiftRangeMasked         func(value, lo, hi, mask *view.View)
	initMask                 func(src *view.View, index, value uint8, dst *view.View)
	interferenceIncrement    func(statistic *view.View, value uint8, saturation int16)
	interferenceIncrementM   func(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8)
	interferenceDecrement    func(statistic *view.View, value uint8, saturation int16)
	interferenceDecrementM   func(statistic *view.View, value uint8, saturation int16, mask *view.View, index uint8)
	crc32c                   func(data []byte) uint32
	detectionHaarDetect      func(h *cascade.Handle, mask *view.View, rect image.Rectangle, dst *view.View) error
	hogDirectionHistograms   func(src *view.View, cellX, cellY, quantization int, histograms []float32)
	operationBinary8u        func(a, b, dst *view.View, t base.Binary8uType)
	operationBinary16i       func(a, b, dst *view.View, t base.Binary16iType)
	vectorProduct            func(vertical, horizontal []uint8, dst *view.View)
	resizeBilinear           func(src, dst *view.View)
	shrinkRegion             func(mask *view.View, index uint8, rect *image.Rectangle)
	fillSingleHoles          func(mask *view.View, index uint8)
	changeIndex              func(mask *view.View, oldIndex, newIndex uint8)
	propagate2x2             func(parent, child, difference *view.View, currentIndex, invalidIndex, emptyIndex, threshold uint8)
	getStatistic             func(src *view.View) (lo, hi, average uint8)
	getMoments               func(mask *view.View, index uint8) base.Moments
	getRowSums               func(src *view.View, sums []uint32)
	getColSums               func(src *view.View, sums []uint32)
	valueSum                 func(src *view.View) uint64
	squareSum                func(src *view.View) uint64
	correlationSum           func(a, b *view.View) uint64
	absDifferenceSum         func(a, b *view.View) uint64
	squaredDifferenceSum     func(a, b *view.View) uint64
	boostedSaturatedGradient func(src *view.View, saturation, boost uint8, dx, dy *view.View)
	boostedUv                func(src *view.View, boost uint8, dst *view.View)
	getDifferenceSum         func(src, lo, hi *view.View) int64
	performCompensation      func(src *view.View, shift int, dst *view.View)
	bgraToBgr                func(bgra, bgr *view.View)
}

var tables = map[Backend]*table{
	BackendBase: {
		growRangeSlow:            base.GrowRangeSlow,
		growRangeFast:            base.GrowRangeFast,
		incrementCount:           base.IncrementCount,
		adjustRange:              base.AdjustRange,
		adjustRangeMasked:        base.AdjustRangeMasked,
		shiftRange:               base.ShiftRange,
		shiftRangeMasked:         base.ShiftRangeMasked,
		initMask:                 base.InitMask,
		interferenceIncrement:    base.InterferenceIncrement,
		interferenceIncrementM:   base.InterferenceIncrementMasked,
		interferenceDecrement:    base.InterferenceDecrement,
		interferenceDecrementM:   base.InterferenceDecrementMasked,
		crc32c:                   base.Crc32c,
		detectionHaarDetect:      base.DetectionHaarDetect,
		hogDirectionHistograms:   base.HogDirectionHistograms,
		operationBinary8u:        base.OperationBinary8u,
		operationBinary16i:       base.OperationBinary16i,
		vectorProduct:            base.VectorProduct,
		resizeBilinear:           base.ResizeBilinear,
		shrinkRegion:             base.ShrinkRegion,
		fillSingleHoles:          base.FillSingleHoles,
		changeIndex:              base.ChangeIndex,
		propagate2x2:             base.Propagate2x2,
		getStatistic:             base.GetStatistic,
		getMoments:               base.GetMoments,
		getRowSums:               base.GetRowSums,
		getColSums:               base.GetColSums,
		valueSum:                 base.ValueSum,
		squareSum:                base.SquareSum,
		correlationSum:           base.CorrelationSum,
		absDifferenceSum:         base.AbsDifferenceSum,
		squaredDifferenceSum:     base.SquaredDifferenceSum,
		boostedSaturatedGradient: base.BoostedSaturatedGradient,
		boostedUv:                base.BoostedUv,
		getDifferenceSum:         base.GetDifferenceSum,
		performCompensation:      base.PerformCompensation,
		bgraToBgr:                base.BgraToBgr,
	},
	BackendFast: {
		growRangeSlow:            fast.GrowRangeSlow,
		growRangeFast:            fast.GrowRangeFast,
		incrementCount:           fast.IncrementCount,
		adjustRange:              fast.AdjustRange,
		adjustRangeMasked:        fast.AdjustRangeMasked,
		shiftRange:               fast.ShiftRange,
		shiftRangeMasked:         fast.ShiftRangeMasked,
		initMask:                 fast.InitMask,
		interferenceIncrement:    fast.InterferenceIncrement,
		interferenceIncrementM:   fast.InterferenceIncrementMasked,
		interferenceDecrement:    fast.InterferenceDecrement,
		interferenceDecrementM:   fast.InterferenceDecrementMasked,
		crc32c:                   fast.Crc32c,
		detectionHaarDetect:      fast.DetectionHaarDetect,
		hogDirectionHistograms:   fast.HogDirectionHistograms,
		operationBinary8u:        fast.OperationBinary8u,
		operationBinary16i:       fast.OperationBinary16i,
		vectorProduct:            fast.VectorProduct,
		resizeBilinear:           fast.ResizeBilinear,
		shrinkRegion:             fast.ShrinkRegion,
		fillSingleHoles:          fast.FillSingleHoles,
		changeIndex:              fast.ChangeIndex,
		propagate2x2:             fast.Propagate2x2,
		getStatistic:             fast.GetStatistic,
		getMoments:               fast.GetMoments,
		getRowSums:               fast.GetRowSums,
		getColSums:               fast.GetColSums,
		valueSum:                 fast.ValueSum,
		squareSum:                fast.SquareSum,
		correlationSum:           fast.CorrelationSum,
		absDifferenceSum:         fast.AbsDifferenceSum,
		squaredDifferenceSum:     fast.SquaredDifferenceSum,
		boostedSaturatedGradient: fast.BoostedSaturatedGradient,
		boostedUv:                fast.BoostedUv,
		getDifferenceSum:         fast.GetDifferenceSum,
		performCompensation:      fast.PerformCompensation,
		bgraToBgr:                fast.BgraToBgr,
	},
}

var (
	active        atomic.Pointer[table]
	activeBackend atomic.Int32
)

func init() {
	b := Detect()
	SetBackend(b)
	slog.Debug("Kernels initialized", "backend", b.String(), "features", Features())
}

// Detect returns the backend for the host. The fast kernels need 64-bit
// registers with SSE2 on x86 or Advanced SIMD on ARM64.
func Detect() Backend {
	if cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD {
		return BackendFast
	}
	return BackendBase
}

// ActiveBackend reports which backend the dispatched kernels forward to.
func ActiveBackend() Backend {
	return Backend(activeBackend.Load())
}

// SetBackend switches the dispatched kernels to b and returns the previous
// backend. Unknown backends select base.
func SetBackend(b Backend) Backend {
	t, ok := tables[b]
	if !ok {
		b, t = BackendBase, tables[BackendBase]
	}
	prev := ActiveBackend()
	active.Store(t)
	activeBackend.Store(int32(b))
	return prev
}

// Features lists the detected CPU features relevant to kernel selection.
func Features() string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasSSE42, "sse4.2")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasAVX512BW, "avx512bw")
	add(cpu.ARM64.HasASIMD, "asimd")
	add(cpu.ARM64.HasCRC32, "crc32")
	if len(f) == 0 {
		return "none"
	}
	return strings.Join(f, ",")
}

// HardwareCRC reports whether the CPU has CRC-32C instructions.
func HardwareCRC() bool {
	return cpu.X86.HasSSE42 || cpu.ARM64.HasCRC32
}
