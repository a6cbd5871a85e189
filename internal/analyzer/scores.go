package analyzer

// Score formulas mapping raw frame measurements to severities in [0,100].
// Each formula is a pure function; the constants are part of the scoring
// contract and calibrated for 8-bit intensity rasters.

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BlurScore maps Laplacian variance to defocus severity. Variance of 1000 or
// more reads as fully sharp.
func BlurScore(laplacianVar float64) float64 {
	return 100 - clamp(laplacianVar/1000.0*100.0, 0, 100)
}

// BlackoutScore maps mean intensity and the share of pixels in [0,74] to
// covered-lens severity. Frames with mean intensity 60 or above contribute
// nothing through the mean term.
func BlackoutScore(meanIntensity, deepDarkPct float64) float64 {
	darkness := (60 - meanIntensity) * 1.5
	if darkness < 0 {
		darkness = 0
	}
	return clamp(darkness+deepDarkPct*0.6, 0, 100)
}

// FlashScore maps the share of pixels in [200,255] to blinding severity.
// A third of the frame at highlight intensity saturates the score.
func FlashScore(highlightPct float64) float64 {
	return clamp(highlightPct*3.0, 0, 100)
}

// EdgeScore maps edge density to structure-loss severity; fewer linked edges
// mean a higher score
func EdgeScore(edgeDensity float64) float64 {
	return 100 - clamp(edgeDensity*150.0, 0, 100)
}

// ContrastScore maps the intensity standard deviation to flatness severity.
// A deviation of 10 or more reads as fully contrasted.
func ContrastScore(stdDev float64) float64 {
	return 100 - clamp(stdDev/10.0*100.0, 0, 100)
}

// SceneChangeScore maps the mean absolute frame difference to view-change
// severity; an average difference of 50 saturates the score
func SceneChangeScore(meanAbsDiff float64) float64 {
	return clamp(meanAbsDiff/50.0*100.0, 0, 100)
}
