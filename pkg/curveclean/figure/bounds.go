package figure

import "math"

// Bounds is the bounding box of fetched series values.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// emptyBounds returns bounds that any value will extend.
func emptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
}

// Extend grows the bounds to cover a series. Series missing either axis are skipped.
func (b *Bounds) Extend(xs, ys []float64) {
	if len(xs) == 0 || len(ys) == 0 {
		return
	}
	for _, x := range xs {
		b.MinX = math.Min(b.MinX, x)
		b.MaxX = math.Max(b.MaxX, x)
	}
	for _, y := range ys {
		b.MinY = math.Min(b.MinY, y)
		b.MaxY = math.Max(b.MaxY, y)
	}
}

// Empty reports whether no value was observed.
func (b Bounds) Empty() bool {
	return math.IsInf(b.MinX, 1) || math.IsInf(b.MinY, 1)
}

// padded returns [min - 5% of span, max + 5% of span].
func padded(lo, hi float64) [2]float64 {
	pad := (hi - lo) * 0.05
	return [2]float64{lo - pad, hi + pad}
}
