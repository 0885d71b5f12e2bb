// Package extract turns the raw text returned by a vision model into a fully
// typed, validated expense draft. Parsing prefers a JSON object embedded in
// the response and falls back to labeled-line matching; normalization and
// validation then guarantee a complete value for every field.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Tier identifies which parsing strategy produced an Extraction.
type Tier int

const (
	// TierNone means neither strategy found anything usable.
	TierNone Tier = iota
	// TierStructured means a JSON object embedded in the response decoded.
	TierStructured
	// TierFallback means labeled-line matching recovered at least one field.
	TierFallback
)

// Extraction is the loosely typed output of Parse: candidate field names
// mapped to raw values with no guarantee of presence or type. The full model
// response is always retained in RawText.
type Extraction struct {
	Tier    Tier
	Fields  map[string]any
	RawText string
}

var (
	vendorLineRe = regexp.MustCompile(`(?im)^\s*(?:vendor|store|merchant|business)\s*[:\-]\s*(.+)$`)
	dateLineRe   = regexp.MustCompile(`(?im)^\s*(?:date|purchase date|transaction date)\s*[:\-]\s*(.+)$`)
	totalLineRe  = regexp.MustCompile(`(?im)^\s*(?:total|grand total|amount due)\s*[:\-]\s*\$?\s*([0-9][0-9.,]*)`)
)

// Parse extracts candidate fields from a raw model response. It never fails:
// if the structured tier does not decode and no labeled line matches, the
// result carries TierNone and only the raw text.
//
// Tier selection is strict either/or: once a JSON object decodes, the
// fallback matcher never runs, even if the object is missing most fields.
func Parse(raw string) Extraction {
	ex := Extraction{Tier: TierNone, Fields: map[string]any{}, RawText: raw}

	text := stripFences(raw)

	if fields, ok := parseStructured(text); ok {
		ex.Tier = TierStructured
		ex.Fields = fields
		return ex
	}

	if fields, ok := parseLabeledLines(text); ok {
		ex.Tier = TierFallback
		ex.Fields = fields
	}
	return ex
}

// stripFences removes markdown code fences that models wrap JSON in despite
// being told not to.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseStructured scans for the first substring that looks like a JSON object
// (greedy: first '{' to last '}') and attempts to decode it into a field map.
func parseStructured(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return nil, false
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// parseLabeledLines applies independent pattern matches for vendor, date and
// total against labeled lines. Fields that do not match are left missing.
func parseLabeledLines(text string) (map[string]any, bool) {
	fields := map[string]any{}

	if m := vendorLineRe.FindStringSubmatch(text); m != nil {
		fields["vendor"] = strings.TrimSpace(m[1])
	}
	if m := dateLineRe.FindStringSubmatch(text); m != nil {
		fields["date"] = strings.TrimSpace(m[1])
	}
	if m := totalLineRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			fields["total"] = v
		}
	}

	return fields, len(fields) > 0
}
