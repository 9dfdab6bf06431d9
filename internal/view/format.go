package view

// Format identifies the element type and channel layout of a View.
type Format int

const (
	None Format = iota
	Gray8
	Uv16
	Bgr24
	Bgra32
	Int16
	Int32
	Int64
	Float
	Double
)

// PixelSize returns the size of one pixel in bytes.
func (f Format) PixelSize() int {
	switch f {
	case Gray8:
		return 1
	case Uv16, Int16:
		return 2
	case Bgr24:
		return 3
	case Bgra32, Int32, Float:
		return 4
	case Int64, Double:
		return 8
	default:
		return 0
	}
}

// ChannelCount returns the number of channels per pixel.
func (f Format) ChannelCount() int {
	switch f {
	case None:
		return 0
	case Uv16:
		return 2
	case Bgr24:
		return 3
	case Bgra32:
		return 4
	default:
		return 1
	}
}

// ChannelSize returns the size of one channel element in bytes.
func (f Format) ChannelSize() int {
	if f == None {
		return 0
	}
	return f.PixelSize() / f.ChannelCount()
}

// Floating reports whether channel elements are floating point.
func (f Format) Floating() bool {
	return f == Float || f == Double
}

func (f Format) String() string {
	switch f {
	case Gray8:
		return "Gray8"
	case Uv16:
		return "Uv16"
	case Bgr24:
		return "Bgr24"
	case Bgra32:
		return "Bgra32"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	default:
		return "None"
	}
}

// ColorFormats lists the 8-bit interleaved formats swept by multi-channel tests.
var ColorFormats = []Format{Gray8, Uv16, Bgr24, Bgra32}
