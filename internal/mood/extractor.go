package mood

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justestif/go-moodlist/internal/apperr"
	"github.com/justestif/go-moodlist/internal/inference"
)

// Analyzer is the slice of the inference client the extractor needs.
type Analyzer interface {
	AnalyzeText(ctx context.Context, prompt string) (inference.TextAnalysis, error)
	ClassifyImage(ctx context.Context, image []byte) (inference.ImageAnalysis, error)
}

// Extractor converts raw request input into a Descriptor. It makes exactly
// one outbound inference call per supplied modality and caches nothing across
// requests.
type Extractor struct {
	analyzer Analyzer
	log      *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger defaults to slog.Default.
func NewExtractor(analyzer Analyzer, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{analyzer: analyzer, log: log}
}

// Extract produces a mood descriptor from text and/or image input.
//
// Text takes precedence for the summary. When both modalities are present, a
// failed image analysis degrades gracefully to text-only; when the image is
// the only input, its failure is propagated unretried.
func (e *Extractor) Extract(ctx context.Context, text string, image []byte) (Descriptor, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return Descriptor{}, apperr.New(apperr.ErrInvalidInput,
			"describe your mood or upload an image")
	}

	if text == "" {
		return e.extractFromImage(ctx, image)
	}

	analysis, err := e.analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return Descriptor{}, fmt.Errorf("extracting mood from text: %w", err)
	}

	d := Descriptor{
		Summary:      strings.TrimSpace(analysis.Summary),
		Keywords:     analysis.Keywords,
		Energy:       analysis.Scores.Energy,
		Valence:      analysis.Scores.Valence,
		Danceability: analysis.Scores.Danceability,
		Acousticness: analysis.Scores.Acousticness,
	}

	if len(image) > 0 {
		e.refineFromImage(ctx, &d, image)
	}

	if d.Summary == "" {
		d.Summary = fallbackSummary(d)
	}
	return d, nil
}

// extractFromImage builds a descriptor from image input alone.
func (e *Extractor) extractFromImage(ctx context.Context, image []byte) (Descriptor, error) {
	analysis, err := e.analyzer.ClassifyImage(ctx, image)
	if err != nil {
		return Descriptor{}, fmt.Errorf("extracting mood from image: %w", err)
	}

	d := Descriptor{
		Keywords:     labelNames(analysis.Labels),
		Energy:       analysis.Scores.Energy,
		Valence:      analysis.Scores.Valence,
		Danceability: analysis.Scores.Danceability,
		Acousticness: analysis.Scores.Acousticness,
	}

	if d.HasNumeric() {
		d.Summary = fallbackSummary(d)
	} else {
		d.Summary = strings.Join(topLabels(analysis.Labels, 3), ", ")
	}
	return d, nil
}

// refineFromImage merges image-derived signals into a text-derived
// descriptor: image scores fill dimensions the text analysis left empty, and
// image labels extend the keyword list. Image failure is logged and ignored;
// the text signal stands on its own.
func (e *Extractor) refineFromImage(ctx context.Context, d *Descriptor, image []byte) {
	analysis, err := e.analyzer.ClassifyImage(ctx, image)
	if err != nil {
		e.log.Warn("image analysis failed, continuing with text only", "error", err)
		return
	}

	if d.Energy == nil {
		d.Energy = analysis.Scores.Energy
	}
	if d.Valence == nil {
		d.Valence = analysis.Scores.Valence
	}
	if d.Danceability == nil {
		d.Danceability = analysis.Scores.Danceability
	}
	if d.Acousticness == nil {
		d.Acousticness = analysis.Scores.Acousticness
	}
	d.Keywords = append(d.Keywords, labelNames(analysis.Labels)...)
}

func labelNames(labels []inference.ImageLabel) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		if l.Label != "" {
			names = append(names, l.Label)
		}
	}
	return names
}

func topLabels(labels []inference.ImageLabel, n int) []string {
	names := labelNames(labels)
	if len(names) > n {
		names = names[:n]
	}
	return names
}
