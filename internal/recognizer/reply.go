package recognizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"repdf/internal/domain"
)

// ParseReply maps a backend's free-form reply onto TextRegions. The reply may
// wrap its JSON in markdown fences or surround it with commentary; only the span
// from the first '{' to the last '}' is decoded. Parse failures yield an empty,
// non-nil slice together with ErrMalformedReply so callers can log and continue.
// Wrong-typed or missing fields are defaulted, never fatal.
func ParseReply(raw string) ([]domain.TextRegion, error) {
	regions := []domain.TextRegion{}

	span, ok := jsonSpan(raw)
	if !ok {
		return regions, ErrMalformedReply
	}

	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return regions, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	items, _ := doc["texts"].([]interface{})
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		regions = append(regions, regionFromMap(m))
	}
	return regions, nil
}

// jsonSpan isolates the JSON object inside a reply.
func jsonSpan(raw string) (string, bool) {
	text := strings.TrimSpace(raw)

	if strings.Contains(text, "```") {
		for _, part := range strings.Split(text, "```") {
			part = strings.TrimSpace(part)
			part = strings.TrimSpace(strings.TrimPrefix(part, "json"))
			if strings.HasPrefix(part, "{") {
				text = part
				break
			}
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func regionFromMap(m map[string]interface{}) domain.TextRegion {
	r := domain.TextRegion{
		Content:    strings.TrimSpace(toString(m["content"])),
		X:          toFloat(m["x"]),
		Y:          toFloat(m["y"]),
		Width:      toFloat(m["width"]),
		Height:     toFloat(m["height"]),
		FontWeight: toWeight(m["font_weight"]),
		Confidence: toConfidence(m["confidence"]),
	}
	if size := toFloat(m["font_size"]); size > 0 {
		r.FontSize = size
	}
	if s, ok := m["color"].(string); ok {
		if c, err := domain.ParseHexColor(s); err == nil {
			r.Color = &c
		}
	}
	return r
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toFloat(v interface{}) float64 {
	var f float64
	switch t := v.(type) {
	case json.Number:
		f, _ = t.Float64()
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(strings.TrimSuffix(s, "px"), "pt")
		f, _ = strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toWeight(v interface{}) domain.FontWeight {
	switch t := v.(type) {
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "bold" || s == "bolder" {
			return domain.FontWeightBold
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 600 {
			return domain.FontWeightBold
		}
	case json.Number:
		if n, err := t.Float64(); err == nil && n >= 600 {
			return domain.FontWeightBold
		}
	case bool:
		if t {
			return domain.FontWeightBold
		}
	}
	return domain.FontWeightNormal
}

// toConfidence clamps to [0,1]; values in (1,100] are read as percentages.
func toConfidence(v interface{}) float64 {
	c := toFloat(v)
	if c > 1 && c <= 100 {
		c /= 100
	}
	return math.Max(0, math.Min(1, c))
}
