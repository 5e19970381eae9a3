package aqi

import "math"

// Breakpoint maps a PM2.5 concentration range (µg/m³) onto a US AQI sub-range.
type Breakpoint struct {
	ConcentrationLow  float64
	ConcentrationHigh float64
	IndexLow          int
	IndexHigh         int
}

// PM25Breakpoints is the EPA table for 24-hour PM2.5. Consecutive ranges are
// separated by 0.1 µg/m³ so no concentration belongs to two ranges.
var PM25Breakpoints = []Breakpoint{
	{ConcentrationLow: 0, ConcentrationHigh: 12.0, IndexLow: 0, IndexHigh: 50},
	{ConcentrationLow: 12.1, ConcentrationHigh: 35.4, IndexLow: 51, IndexHigh: 100},
	{ConcentrationLow: 35.5, ConcentrationHigh: 55.4, IndexLow: 101, IndexHigh: 150},
	{ConcentrationLow: 55.5, ConcentrationHigh: 150.4, IndexLow: 151, IndexHigh: 200},
	{ConcentrationLow: 150.5, ConcentrationHigh: 250.4, IndexLow: 201, IndexHigh: 300},
	{ConcentrationLow: 250.5, ConcentrationHigh: 500.0, IndexLow: 301, IndexHigh: 500},
}

// MaxIndex is the top of the US AQI scale.
const MaxIndex = 500

// USAQI converts a PM2.5 concentration into a US AQI value in [0, 500].
//
// In-range concentrations are interpolated as given. A concentration that
// falls between two ranges is truncated to 0.1 µg/m³, as the EPA reports it,
// so it resolves to the lower range. Concentrations above the table are
// clamped to 500; negative or NaN input yields 0.
func USAQI(pm25 float64) int {
	if pm25 > PM25Breakpoints[len(PM25Breakpoints)-1].ConcentrationHigh {
		return MaxIndex
	}
	if !(pm25 >= 0) {
		return 0
	}

	if bp, ok := lookup(pm25); ok {
		return bp.interpolate(pm25)
	}
	c := truncate(pm25)
	if bp, ok := lookup(c); ok {
		return bp.interpolate(c)
	}
	return 0
}

func lookup(c float64) (Breakpoint, bool) {
	for _, bp := range PM25Breakpoints {
		if c >= bp.ConcentrationLow && c <= bp.ConcentrationHigh {
			return bp, true
		}
	}
	return Breakpoint{}, false
}

func (bp Breakpoint) interpolate(c float64) int {
	slope := float64(bp.IndexHigh-bp.IndexLow) / (bp.ConcentrationHigh - bp.ConcentrationLow)
	return int(math.Round(slope*(c-bp.ConcentrationLow) + float64(bp.IndexLow)))
}

// truncate drops everything below one decimal place. The epsilon absorbs
// binary representation error so 12.1 stays 12.1.
func truncate(v float64) float64 {
	return math.Floor(v*10+1e-9) / 10
}
