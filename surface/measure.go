package surface

// Mode is how a layout constraint binds one axis.
type Mode int

const (
	// Unspecified leaves the axis free.
	Unspecified Mode = iota
	// AtMost caps the axis.
	AtMost
	// Exactly fixes the axis.
	Exactly
)

// Spec is a layout constraint for one axis.
type Spec struct {
	Mode Mode
	Size int
}

// Measure returns the size of a target laid out under the given constraints
// while keeping the aspect ratio of video whenever the constraints allow it.
func Measure(video Size, width, height Spec) Size {
	w := defaultSize(video.Width, width)
	h := defaultSize(video.Height, height)

	if video.Empty() {
		return Size{Width: w, Height: h}
	}

	vw, vh := video.Width, video.Height

	switch {
	case width.Mode == Exactly && height.Mode == Exactly:
		w, h = width.Size, height.Size

		if vw*h < w*vh {
			// too wide
			w = h * vw / vh
		} else if vw*h > w*vh {
			// too tall
			h = w * vh / vw
		}
	case width.Mode == Exactly:
		w = width.Size
		h = w * vh / vw
		if height.Mode == AtMost && h > height.Size {
			h = height.Size
		}
	case height.Mode == Exactly:
		h = height.Size
		w = h * vw / vh
		if width.Mode == AtMost && w > width.Size {
			w = width.Size
		}
	default:
		w, h = vw, vh
		if height.Mode == AtMost && h > height.Size {
			h = height.Size
			w = h * vw / vh
		}
		if width.Mode == AtMost && w > width.Size {
			w = width.Size
			h = w * vh / vw
		}
	}

	return Size{Width: w, Height: h}
}

func defaultSize(size int, spec Spec) int {
	if spec.Mode == Unspecified {
		return size
	}
	return spec.Size
}
