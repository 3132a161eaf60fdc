package domain

// TextFeatures captures the linguistic and affective profile of a single
// text. Features are computed on demand per text and compared pairwise by
// the stylistic scorer.
//
// A text with zero words yields the zero value for every derived ratio;
// extraction never faults on empty or unparseable input.
type TextFeatures struct {
	// Length is the character (rune) count of the raw text.
	Length int `json:"length"`

	// WordCount is the whitespace-delimited token count.
	WordCount int `json:"word_count"`

	// AvgWordLength is the mean rune length per word.
	AvgWordLength float64 `json:"avg_word_length"`

	// SentenceCount is the detected sentence count, clamped to a minimum
	// of 1 whenever the text has any words so per-sentence ratios stay
	// defined.
	SentenceCount int `json:"sentence_count"`

	// AvgSentenceLength is words per sentence.
	AvgSentenceLength float64 `json:"avg_sentence_length"`

	// ReadingEase is the Flesch Reading Ease score (higher = easier).
	ReadingEase float64 `json:"flesch_reading_ease"`

	// GradeLevel is the Flesch-Kincaid grade level.
	GradeLevel float64 `json:"flesch_kincaid_grade"`

	// Formality is 1 minus the normalized density of informal-language
	// markers, clamped to [0, 1]. Lower values mean more casual text.
	Formality float64 `json:"formality_score"`

	// HasTypos reports whether the text shows typo or imperfection signals:
	// repeated whitespace, repeated punctuation, mid-word case breaks, or a
	// known dataset misspelling.
	HasTypos bool `json:"has_typos"`

	// PunctuationDensity is sentence-punctuation marks per word.
	PunctuationDensity float64 `json:"punctuation_density"`

	// VocabularyRichness is the type-token ratio (unique words / words).
	VocabularyRichness float64 `json:"vocabulary_richness"`

	// Polarity is the sentiment polarity in [-1, 1].
	Polarity float64 `json:"sentiment_polarity"`

	// Subjectivity is the sentiment subjectivity in [0, 1].
	Subjectivity float64 `json:"sentiment_subjectivity"`

	// EmotionalIntensity is the rule-based analyzer's compound score
	// rescaled from [-1, 1] to [0, 1].
	EmotionalIntensity float64 `json:"emotional_intensity"`

	// PositiveTone, NegativeTone, and NeutralTone are the analyzer's
	// emotion proportions, each clamped to [0, 1]. They are ordinally
	// comparable but not guaranteed to sum to 1.
	PositiveTone float64 `json:"positive_tone"`
	NegativeTone float64 `json:"negative_tone"`
	NeutralTone  float64 `json:"neutral_tone"`
}
