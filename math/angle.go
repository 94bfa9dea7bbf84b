package math

import "math"

// Angle is a direction in degrees. Values are not kept normalized; use
// Normalized180 or DeltaAngle when comparing.
type Angle float64

// BAM is a binary angle: the full circle maps onto the uint32 range, so
// wrap-around is plain integer overflow.
type BAM uint32

const (
	BAM45  BAM = 0x20000000
	BAM90  BAM = 0x40000000
	BAM180 BAM = 0x80000000
	BAM270 BAM = 0xc0000000
	BAMMax BAM = 0xffffffff
)

const bamPerDegree = float64(1<<32) / 360

// Normalized180 maps a into [-180, 180).
func (a Angle) Normalized180() Angle {
	d := math.Mod(float64(a)+180, 360)
	if d < 0 {
		d += 360
	}
	return Angle(d - 180)
}

// Normalized360 maps a into [0, 360).
func (a Angle) Normalized360() Angle {
	d := math.Mod(float64(a), 360)
	if d < 0 {
		d += 360
	}
	return Angle(d)
}

func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180
}

func (a Angle) Cos() float64 { return math.Cos(a.Radians()) }
func (a Angle) Sin() float64 { return math.Sin(a.Radians()) }

// BAMs converts a to a binary angle, rounding to the nearest unit.
func (a Angle) BAMs() BAM {
	return BAM(uint32(int64(math.Round(float64(a.Normalized360()) * bamPerDegree))))
}

// Degrees converts a binary angle back to degrees in [0, 360).
func (b BAM) Degrees() Angle {
	return Angle(float64(b) / bamPerDegree)
}

// DeltaAngle returns the signed shortest turn from a1 to a2.
func DeltaAngle(a1, a2 Angle) Angle {
	return (a2 - a1).Normalized180()
}
