package recognizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repdf/internal/domain"
	"repdf/internal/recognizer"
)

func TestParseReply_FencedEmptyTexts(t *testing.T) {
	regions, err := recognizer.ParseReply("Sure! ```json\n{\"texts\": []}\n```")

	require.NoError(t, err)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}

func TestParseReply_FullRegion(t *testing.T) {
	raw := `{"texts":[{"content":"Hello","x":100,"y":50,"width":400,"height":60,"font_size":36,"font_weight":"bold","color":"#333333","confidence":0.95}]}`

	regions, err := recognizer.ParseReply(raw)

	require.NoError(t, err)
	require.Len(t, regions, 1)
	r := regions[0]
	assert.Equal(t, "Hello", r.Content)
	assert.Equal(t, 100.0, r.X)
	assert.Equal(t, 50.0, r.Y)
	assert.Equal(t, 400.0, r.Width)
	assert.Equal(t, 60.0, r.Height)
	assert.Equal(t, 36.0, r.FontSize)
	assert.Equal(t, domain.FontWeightBold, r.FontWeight)
	require.NotNil(t, r.Color)
	assert.Equal(t, domain.RGB{R: 0x33, G: 0x33, B: 0x33}, *r.Color)
	assert.InDelta(t, 0.95, r.Confidence, 1e-9)
}

func TestParseReply_FencedWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"texts\":[{\"content\":\"A\",\"x\":1,\"y\":2,\"width\":3,\"height\":4}]}\n```"

	regions, err := recognizer.ParseReply(raw)

	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "A", regions[0].Content)
	assert.Equal(t, 3.0, regions[0].Width)
}

func TestParseReply_LeadingAndTrailingText(t *testing.T) {
	raw := "The slide contains:\n{\"texts\":[{\"content\":\"Title\",\"x\":10,\"y\":20,\"width\":30,\"height\":40}]}\nDone."

	regions, err := recognizer.ParseReply(raw)

	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "Title", regions[0].Content)
}

func TestParseReply_NoJSON(t *testing.T) {
	regions, err := recognizer.ParseReply("I could not find any text.")

	assert.ErrorIs(t, err, recognizer.ErrMalformedReply)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)
}

func TestParseReply_InvalidJSON(t *testing.T) {
	regions, err := recognizer.ParseReply(`{"texts": [ {"content": "x", }`)

	assert.ErrorIs(t, err, recognizer.ErrMalformedReply)
	assert.Empty(t, regions)
}

func TestParseReply_MissingTextsKey(t *testing.T) {
	regions, err := recognizer.ParseReply(`{"blocks": [{"content": "x"}]}`)

	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestParseReply_WrongTypesAreDefaulted(t *testing.T) {
	raw := `{"texts":[{"content":42,"x":"15px","y":null,"width":"abc","height":true,"font_size":-3,"font_weight":700,"color":"red","confidence":"87"}, "not-an-object"]}`

	regions, err := recognizer.ParseReply(raw)

	require.NoError(t, err)
	require.Len(t, regions, 1)
	r := regions[0]
	assert.Equal(t, "42", r.Content)
	assert.Equal(t, 15.0, r.X)
	assert.Equal(t, 0.0, r.Y)
	assert.Equal(t, 0.0, r.Width)
	assert.Equal(t, 0.0, r.Height)
	assert.Equal(t, 0.0, r.FontSize)
	assert.Equal(t, domain.FontWeightBold, r.FontWeight)
	assert.Nil(t, r.Color)
	assert.InDelta(t, 0.87, r.Confidence, 1e-9)
}

func TestParseReply_ShortHexColorRejected(t *testing.T) {
	regions, err := recognizer.ParseReply(`{"texts":[{"content":"x","color":"#fff"}]}`)

	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Nil(t, regions[0].Color)
	assert.Equal(t, domain.FontWeightNormal, regions[0].FontWeight)
}

func TestParseReply_ConfidenceClamped(t *testing.T) {
	regions, err := recognizer.ParseReply(`{"texts":[{"content":"a","confidence":-1},{"content":"b","confidence":250}]}`)

	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, 0.0, regions[0].Confidence)
	assert.Equal(t, 1.0, regions[1].Confidence)
}
