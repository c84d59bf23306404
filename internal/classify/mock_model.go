package classify

import "context"

// MockModel is a TrainedClassifier for tests and offline runs. If
// PredictFn is set it is called; otherwise the fixed Response/Err pair
// is returned.
type MockModel struct {
	PredictFn func(ctx context.Context, features FeatureVector) (Prediction, error)
	Response  Prediction
	Err       error
	Calls     int
}

// Predict implements TrainedClassifier.
func (m *MockModel) Predict(ctx context.Context, features FeatureVector) (Prediction, error) {
	m.Calls++
	if m.PredictFn != nil {
		return m.PredictFn(ctx, features)
	}
	if m.Err != nil {
		return Prediction{}, m.Err
	}
	return m.Response, nil
}
