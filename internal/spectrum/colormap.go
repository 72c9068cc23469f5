package spectrum

// infernoLUT is a 256-entry RGB lookup table approximating matplotlib's
// "inferno" colormap, built once at package init by linearly
// interpolating between a handful of anchor colors spanning black
// through purple, red, orange, and pale yellow. A byte intensity
// indexes straight into it.
var infernoLUT [256][3]byte

type rgb struct{ r, g, b float64 }

var infernoAnchors = []struct {
	pos   float64
	color rgb
}{
	{0.00, rgb{0, 0, 4}},
	{0.13, rgb{31, 12, 72}},
	{0.25, rgb{85, 15, 109}},
	{0.38, rgb{136, 34, 106}},
	{0.50, rgb{186, 54, 85}},
	{0.63, rgb{227, 89, 51}},
	{0.75, rgb{249, 140, 10}},
	{0.87, rgb{249, 201, 50}},
	{1.00, rgb{252, 255, 164}},
}

func init() {
	for i := range 256 {
		t := float64(i) / 255
		infernoLUT[i] = interpolateInferno(t)
	}
}

func interpolateInferno(t float64) [3]byte {
	for i := 1; i < len(infernoAnchors); i++ {
		lo := infernoAnchors[i-1]
		hi := infernoAnchors[i]

		if t > hi.pos && i != len(infernoAnchors)-1 {
			continue
		}

		span := hi.pos - lo.pos
		frac := 0.0

		if span > 0 {
			frac = (t - lo.pos) / span
		}

		r := lo.color.r + (hi.color.r-lo.color.r)*frac
		g := lo.color.g + (hi.color.g-lo.color.g)*frac
		b := lo.color.b + (hi.color.b-lo.color.b)*frac

		return [3]byte{clampByte(r), clampByte(g), clampByte(b)}
	}

	last := infernoAnchors[len(infernoAnchors)-1].color

	return [3]byte{clampByte(last.r), clampByte(last.g), clampByte(last.b)}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}

	if v > 255 {
		return 255
	}

	return byte(v)
}

// ColorFor indexes the 256-entry inferno table by an intensity byte,
// returning a Color that carries the intensity alongside the RGB triple.
func ColorFor(intensity byte) Color {
	rgbVal := infernoLUT[intensity]

	return Color{I: intensity, R: rgbVal[0], G: rgbVal[1], B: rgbVal[2]}
}
