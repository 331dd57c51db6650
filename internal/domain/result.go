package domain

// Reserved keys the extraction prompt contract defines.
const (
	KeyIsRelevant         = "is_relevant"
	KeyAnalyticalBriefing = "analytical_briefing"

	// NotRelevant is the sentinel the model emits for off-topic posts.
	// Only this exact string value gates delivery; anything else falls
	// open toward delivery.
	NotRelevant = "0"
)

// ExtractionResult is the parsed payload of one successful model response.
// The two reserved fields are lifted out; Fields keeps the full mapping so
// prompt-defined extra keys survive without a schema change here.
type ExtractionResult struct {
	IsRelevant         any
	AnalyticalBriefing string
	Fields             map[string]any
}

// NewExtractionResult builds a result from a parsed response mapping.
func NewExtractionResult(fields map[string]any) *ExtractionResult {
	r := &ExtractionResult{Fields: fields}
	r.IsRelevant = fields[KeyIsRelevant]
	if s, ok := fields[KeyAnalyticalBriefing].(string); ok {
		r.AnalyticalBriefing = s
	}
	return r
}

// Relevant reports whether the post should continue to delivery. The value
// "0" short-circuits; an absent, malformed, or non-string value counts as
// relevant.
func (r *ExtractionResult) Relevant() bool {
	s, ok := r.IsRelevant.(string)
	return !ok || s != NotRelevant
}
