package autotest

import (
	"fmt"

	"github.com/cwbudde/pixelparity/internal/compare"
	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/kernel"
	"github.com/cwbudde/pixelparity/internal/kernel/base"
	"github.com/cwbudde/pixelparity/internal/kernel/fast"
)

type crc32Func func(data []byte) uint32

func crc32Tests() []harness.Test {
	return []harness.Test{{Name: "Crc32c", Family: "crc32", Run: crc32c}}
}

// crc32c checksums W*H, W*H+O and W*H-O random bytes. The length is carried
// as the width of a one-row geometry.
func crc32c(r *harness.Runner) bool {
	const name = "Crc32c"
	cfg := r.Config()
	n := cfg.Width * cfg.Height
	sizes := []harness.Size{{W: n, H: 1}, {W: n + cfg.Offset, H: 1}, {W: n - cfg.Offset, H: 1}}
	ps := pairs[crc32Func](name, base.Crc32c, fast.Crc32c, kernel.Crc32c)
	return each(r, sizes, ps, func(s harness.Size, a, b harness.Candidate[crc32Func]) bool {
		data := r.Rand(name, s).Bytes(s.W)
		return harness.Execute(r, harness.Trial[crc32Func, *result[uint32]]{
			Operation: name,
			Size:      s,
			Detail:    fmt.Sprintf("%d bytes", s.W),
			Adapter:   returning(func(fn crc32Func) uint32 { return fn(data) }),
			Check: func(x, y *result[uint32]) []compare.Verdict {
				return []compare.Verdict{compare.Scalar(x.v, y.v, 0, "crc32c")}
			},
		}, a, b)
	})
}
