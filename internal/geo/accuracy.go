package geo

// Segmentation model outputs store confidence as a 0-255 pixel value while
// the API exposes thresholds as 0-100 percentages. The scaling is linear and
// never clamps or rounds; callers round explicitly where needed.

func PercentToAccuracy(percent float64) float64 {
	return 255.0 / 100.0 * percent
}

func AccuracyToPercent(accuracy float64) float64 {
	return accuracy / 255.0 * 100.0
}
