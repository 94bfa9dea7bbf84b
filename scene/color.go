package scene

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorRed    = Color{1, 0, 0, 1}
	ColorGreen  = Color{0, 1, 0, 1}
	ColorBlue   = Color{0, 0, 1, 1}
	ColorYellow = Color{1, 1, 0, 1}
	ColorSky    = Color{0.5, 0.7, 1.0, 1}
)

// Scale darkens or brightens the color channels, keeping alpha.
func (c Color) Scale(f float32) Color {
	return Color{clamp01(c.R * f), clamp01(c.G * f), clamp01(c.B * f), c.A}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// wallPalette gives neighbouring lines distinguishable flat colors.
var wallPalette = []Color{
	{0.75, 0.55, 0.40, 1},
	{0.55, 0.60, 0.70, 1},
	{0.70, 0.70, 0.50, 1},
	{0.50, 0.65, 0.50, 1},
	{0.65, 0.50, 0.60, 1},
	{0.60, 0.60, 0.60, 1},
}

var (
	floorColor   = Color{0.35, 0.30, 0.25, 1}
	ceilingColor = Color{0.45, 0.45, 0.50, 1}
	actorColor   = Color{0.90, 0.25, 0.20, 1}
)

func wallColor(index int) Color {
	return wallPalette[index%len(wallPalette)]
}
