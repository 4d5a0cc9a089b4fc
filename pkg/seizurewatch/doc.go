// Package seizurewatch scores windows of single-channel EEG samples for
// seizure activity.
//
// Quick start:
//
//	d, err := seizurewatch.New(seizurewatch.WithModelPath("models/seizure_prediction_model.onnx"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	det, _ := d.Detect(ctx, samples)
//	fmt.Println(det.Probability, det.IsSeizure)
//
// Each window is bandpass filtered (1-50 Hz), z-score normalized and scored
// by the model. A probability strictly greater than 0.5 is a seizure.
// A Detector is safe for concurrent use. Create once, reuse across requests.
package seizurewatch
