package model

// Detection is the outcome of scoring one window of EEG samples.
type Detection struct {
	Probability float64 `json:"seizureProbability"` // raw model output in [0,1]
	IsSeizure   bool    `json:"isSeizure"`
}

// UploadRequest is the JSON body accepted by the upload endpoint.
// Elements are pointers so a null sample can be told apart from 0.
type UploadRequest struct {
	EEGData *[]*float64 `json:"eegData"`
}
