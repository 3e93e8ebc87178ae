package mood

// quadrantName produces a descriptive mood name from numeric dimensions.
// Used as the descriptor summary when the analyzer returns scores without a
// usable text summary.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
//
// Acousticness modifier: if > 0.6, appends "(Acoustic)".
func quadrantName(energy, valence, acousticness float64) string {
	highEnergy := energy > 0.6
	highValence := valence > 0.5

	var baseName string
	switch {
	case highEnergy && highValence:
		baseName = "Upbeat Party"
	case highEnergy && !highValence:
		baseName = "Intense & Dark"
	case !highEnergy && highValence:
		baseName = "Chill & Happy"
	default:
		baseName = "Reflective & Melancholy"
	}

	if acousticness > 0.6 {
		return baseName + " (Acoustic)"
	}
	return baseName
}

// fallbackSummary names a descriptor from whatever dimensions are present,
// treating missing ones as neutral.
func fallbackSummary(d Descriptor) string {
	return quadrantName(orNeutral(d.Energy), orNeutral(d.Valence), orNeutral(d.Acousticness))
}

func orNeutral(v *float64) float64 {
	if v == nil {
		return 0.5
	}
	return *v
}
