package service_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/partsfinda/partsfinda-api/internal/service"
	"github.com/stretchr/testify/assert"
)

func visualInput(fileName string) service.VisualSearchInput {
	return service.VisualSearchInput{
		FileName:    fileName,
		ContentType: "image/jpeg",
		Image:       []byte("fake image bytes"),
		IncludeUsed: true,
	}
}

func newVisualSearch() service.VisualSearchService {
	return service.NewVisualSearchService(testLogger(), rand.New(rand.NewSource(1)))
}

func TestVisualSearch_DetectsPartFromFilename(t *testing.T) {
	svc := newVisualSearch()

	analysis, results, err := svc.Search(context.Background(), visualInput("brake_new.jpg"))

	assert.NoError(t, err)
	assert.Equal(t, "brake_pad", analysis.PartType)
	assert.Equal(t, "new", analysis.Condition)
	assert.Equal(t, 0.95, analysis.Confidence, "keyword confidence plus the new-condition bump")
	assert.Contains(t, analysis.SuggestedKeywords, "brake pad")
	assert.Contains(t, analysis.Compatibility, "Toyota Camry 2015-2020")
	assert.Equal(t, "ceramic", analysis.Attributes["material"])

	assert.NotEmpty(t, results.Parts)
	assert.Equal(t, "1", results.Parts[0].ID, "the brake pad listing scores highest")
	assert.True(t, results.SearchMeta.ImageAnalyzed)
	assert.Equal(t, analysis.Confidence, results.SearchMeta.MLConfidence)
}

func TestVisualSearch_UnknownFilename(t *testing.T) {
	svc := newVisualSearch()

	analysis, _, err := svc.Search(context.Background(), visualInput("IMG_20240115.jpg"))

	assert.NoError(t, err)
	assert.Equal(t, "unknown", analysis.PartType)
	assert.Equal(t, "used", analysis.Condition)
	assert.Equal(t, 0.5, analysis.Confidence)
	assert.Equal(t, []string{"Universal fit"}, analysis.Compatibility)
}

func TestVisualSearch_ResultsSortedByConfidence(t *testing.T) {
	svc := newVisualSearch()

	_, results, err := svc.Search(context.Background(), visualInput("headlight_led_new.png"))

	assert.NoError(t, err)
	for i := 1; i < len(results.Parts); i++ {
		assert.GreaterOrEqual(t,
			results.Parts[i-1].ConfidenceScore, results.Parts[i].ConfidenceScore,
			"results must be ordered best match first")
	}
	for _, part := range results.Parts {
		assert.Greater(t, part.ConfidenceScore, 0.1, "weak matches are dropped")
		assert.LessOrEqual(t, part.ConfidenceScore, 0.95)
	}
}

func TestVisualSearch_ExcludeUsed(t *testing.T) {
	svc := newVisualSearch()

	input := visualInput("wheel_oem.jpg")
	input.IncludeUsed = false

	_, results, err := svc.Search(context.Background(), input)

	assert.NoError(t, err)
	for _, part := range results.Parts {
		assert.NotEqual(t, "used", part.Condition)
	}
}

func TestVisualSearch_PriceRangeFilter(t *testing.T) {
	svc := newVisualSearch()

	input := visualInput("brake_new.jpg")
	input.PriceRange = "80-100"

	_, results, err := svc.Search(context.Background(), input)

	assert.NoError(t, err)
	assert.NotEmpty(t, results.Parts)
	for _, part := range results.Parts {
		assert.GreaterOrEqual(t, part.Price, 80.0)
		assert.LessOrEqual(t, part.Price, 100.0)
	}
}

func TestVisualSearch_MaxResults(t *testing.T) {
	svc := newVisualSearch()

	input := visualInput("brake_new.jpg")
	input.MaxResults = 1

	_, results, err := svc.Search(context.Background(), input)

	assert.NoError(t, err)
	assert.LessOrEqual(t, len(results.Parts), 1)
}

func TestVisualSearch_InputValidation(t *testing.T) {
	svc := newVisualSearch()
	ctx := context.Background()

	empty := visualInput("brake.jpg")
	empty.Image = nil
	_, _, err := svc.Search(ctx, empty)
	assert.ErrorIs(t, err, service.ErrImageRequired)

	notImage := visualInput("brake.pdf")
	notImage.ContentType = "application/pdf"
	_, _, err = svc.Search(ctx, notImage)
	assert.ErrorIs(t, err, service.ErrNotAnImage)

	huge := visualInput("brake.jpg")
	huge.Image = make([]byte, 10*1024*1024+1)
	_, _, err = svc.Search(ctx, huge)
	assert.ErrorIs(t, err, service.ErrImageTooLarge)
}

func TestVisualSearch_Capabilities(t *testing.T) {
	svc := newVisualSearch()

	caps := svc.Capabilities()

	assert.Equal(t, "10MB", caps["maxFileSize"])
	assert.Contains(t, caps["supportedPartTypes"], "brake_pad")
	features, ok := caps["features"].(map[string]bool)
	assert.True(t, ok)
	assert.True(t, features["partTypeDetection"])
}
