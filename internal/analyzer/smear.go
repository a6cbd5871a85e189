package analyzer

// The smear composite blends blur, contrast and edge severities with an
// intensity distribution penalty. The distribution terms use the intensity
// thirds split at 85 and 170, with thresholds that shift against the frame's
// overall brightness so dark scenes tolerate more dark mass and bright scenes
// more bright mass.

// BrightnessFactor normalizes mean intensity against the 120 reference level,
// capped at 1
func BrightnessFactor(meanIntensity float64) float64 {
	factor := meanIntensity / 120.0
	if factor > 1 {
		factor = 1
	}
	return factor
}

// IntensityThresholds returns the brightness-adjusted minimum shares the
// dark, bright and mid thirds may occupy before they penalize
func IntensityThresholds(meanIntensity float64) (dark, bright, mid float64) {
	factor := BrightnessFactor(meanIntensity)
	dark = 8 + factor*3
	bright = 8 + (1-factor)*3
	mid = 15 + factor*2
	return dark, bright, mid
}

// IntensityDistributionScore accumulates the distribution penalty from the
// mean intensity and the three band shares. The result is unbounded above;
// SmearScore bounds the composite.
func IntensityDistributionScore(meanIntensity, darkPct, midPct, brightPct float64) float64 {
	darkThreshold, brightThreshold, midThreshold := IntensityThresholds(meanIntensity)

	score := 0.0
	if meanIntensity > 120 {
		score += (meanIntensity - 120) * 0.8
	}
	if darkPct > darkThreshold {
		score += darkPct * 0.5
	}
	if brightPct > brightThreshold {
		score += brightPct * 0.5
	}
	if midPct > midThreshold {
		score += midPct * 0.3
	}
	return score
}

// SmearScore combines the blur, contrast and edge severities with the
// intensity distribution penalty. Composites above the 20 pivot are stretched
// by 1.5 and capped at 100; composites at or below it are halved.
func SmearScore(blurScore, contrastScore, edgeScore, intensityScore float64) float64 {
	base := blurScore*0.5 + contrastScore*0.3 + edgeScore*0.2
	combined := base + intensityScore*0.4
	if combined > 20 {
		stretched := 20 + (combined-20)*1.5
		if stretched > 100 {
			stretched = 100
		}
		return stretched
	}
	return combined * 0.5
}
