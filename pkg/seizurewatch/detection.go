package seizurewatch

// Detection is the result of scoring one EEG window.
type Detection struct {
	Probability float64 `json:"seizureProbability"` // Model output in [0, 1]
	IsSeizure   bool    `json:"isSeizure"`          // Probability > 0.5
}
