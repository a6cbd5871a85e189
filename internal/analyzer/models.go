package analyzer

import (
	"go-tamper-inspector/pkg/models"
)

// Result types are aliases to the shared models so kernel callers need only
// this package
type (
	TamperScores = models.TamperScores
	SmearResult  = models.SmearResult
	SceneChange  = models.SceneChange
	FrameMetrics = models.FrameMetrics
)

// frameStats holds the raw measurements of one scanned frame
type frameStats struct {
	laplacianVar float64
	mean         float64
	stdDev       float64
	edgeDensity  float64

	// Intensity thirds, split at 85 and 170
	darkPct   float64
	midPct    float64
	brightPct float64

	// Formula-specific bands
	deepDarkPct  float64 // [0,74]
	highlightPct float64 // [200,255]

	width  int
	height int
}

// metrics converts the internal stats to the shared metrics model
func (st frameStats) metrics() FrameMetrics {
	return FrameMetrics{
		LaplacianVar:  st.laplacianVar,
		MeanIntensity: st.mean,
		StdDev:        st.stdDev,
		EdgeDensity:   st.edgeDensity,
		DarkPct:       st.darkPct,
		MidPct:        st.midPct,
		BrightPct:     st.brightPct,
		Width:         st.width,
		Height:        st.height,
	}
}
