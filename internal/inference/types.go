package inference

// FeatureScores carries the optional numeric mood dimensions returned by the
// inference service. Nil means the service did not report that dimension.
type FeatureScores struct {
	Energy       *float64 `json:"energy,omitempty"`
	Valence      *float64 `json:"valence,omitempty"`
	Danceability *float64 `json:"danceability,omitempty"`
	Acousticness *float64 `json:"acousticness,omitempty"`
}

// TextAnalysis is the response of the text analysis endpoint.
type TextAnalysis struct {
	Summary  string        `json:"summary"`
	Keywords []string      `json:"keywords"`
	Scores   FeatureScores `json:"scores"`
}

// ImageLabel is one classification result for an uploaded image, ordered by
// descending score in the service response.
type ImageLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// textRequest is the JSON body for the text analysis endpoint.
type textRequest struct {
	Prompt string `json:"prompt"`
}

// imageRequest is the JSON body for the image classification endpoint.
type imageRequest struct {
	Image []byte `json:"image"` // serialized as base64 by the JSON encoder
}

// ImageAnalysis is the response of the image classification endpoint. The
// service reports scene labels and, when it can, mood scores derived from
// them.
type ImageAnalysis struct {
	Labels []ImageLabel  `json:"labels"`
	Scores FeatureScores `json:"scores"`
}

// apiError is the error envelope the inference service returns on failures.
type apiError struct {
	Error string `json:"error"`
}
