package tryplot

// Band thresholds as a percentage of pitch length, measured from the
// defending try line.
const (
	defending22Line = 20.0
	halfwayLine     = 50.0
	attacking22Line = 80.0
)

// ClassifyZone maps a Y percentage onto one of the four pitch bands. Every
// bound is inclusive below and exclusive above; anything that fails every
// comparison (negative values, NaN) lands in the defending 22.
func ClassifyZone(y float64) Zone {
	switch {
	case y >= attacking22Line:
		return ZoneAttacking22
	case y >= halfwayLine:
		return ZoneAttackingHalfway
	case y >= defending22Line:
		return ZoneDefendingHalfway
	default:
		return ZoneDefending22
	}
}
