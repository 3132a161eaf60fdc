package scorers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonreiter/govader"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-mimic/internal/domain"
)

// informalPatterns mark casual language: contractions, fillers, hedges.
// Matched against lowercased text.
var informalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bi'm\b`),
	regexp.MustCompile(`\byou're\b`),
	regexp.MustCompile(`\bdon't\b`),
	regexp.MustCompile(`\bcan't\b`),
	regexp.MustCompile(`\bwon't\b`),
	regexp.MustCompile(`\bgonna\b`),
	regexp.MustCompile(`\bwanna\b`),
	regexp.MustCompile(`\bkinda\b`),
	regexp.MustCompile(`\bsorta\b`),
	regexp.MustCompile(`\byeah\b`),
	regexp.MustCompile(`\bnah\b`),
	regexp.MustCompile(`\bumm\b`),
	regexp.MustCompile(`\blike\b.*\blike\b`),
}

// typoPatterns flag mechanical imperfections in raw text.
var typoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s{2,}`),     // repeated whitespace
	regexp.MustCompile(`\.{2,}`),     // repeated periods
	regexp.MustCompile(`[a-z][A-Z]`), // mid-word case break
}

// knownMisspellings are dataset-specific errors, matched by containment in
// the lowercased text. The trailing space on "mum " keeps it from matching
// inside longer words.
var knownMisspellings = []string{"discouns", "toothpase", "mum "}

var sentencePunct = regexp.MustCompile(`[.,!?;:]`)

// FeatureExtractor derives the linguistic and affective profile of a text.
// The zero value is not usable; construct with NewFeatureExtractor.
type FeatureExtractor struct {
	sentiment *govader.SentimentIntensityAnalyzer
}

// NewFeatureExtractor builds an extractor with a rule-based sentiment
// analyzer.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{sentiment: govader.NewSentimentIntensityAnalyzer()}
}

// Extract computes all features for one text. It never fails: a text with
// zero words yields zeroed derived features, and unreadable text falls back
// to moderate readability defaults.
func (x *FeatureExtractor) Extract(text string) domain.TextFeatures {
	features := domain.TextFeatures{Length: utf8.RuneCountInString(text)}

	words := strings.Fields(text)
	if len(words) == 0 {
		return features
	}
	features.WordCount = len(words)

	totalRunes := 0
	for _, w := range words {
		totalRunes += utf8.RuneCountInString(w)
	}
	features.AvgWordLength = float64(totalRunes) / float64(len(words))

	features.SentenceCount = countSentences(text)
	features.AvgSentenceLength = float64(len(words)) / float64(features.SentenceCount)

	features.ReadingEase, features.GradeLevel = readabilityScores(words, features.SentenceCount)
	features.Formality = x.formality(text, len(words))
	features.HasTypos = hasTypos(text)

	features.PunctuationDensity = float64(len(sentencePunct.FindAllString(text, -1))) / float64(len(words))

	// Caser values are stateful, so one per call.
	folder := cases.Fold()
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[folder.String(w)] = struct{}{}
	}
	features.VocabularyRichness = float64(len(unique)) / float64(len(words))

	scores := x.sentiment.PolarityScores(text)
	features.Polarity = scores.Compound
	features.Subjectivity = clamp01(1 - scores.Neutral)
	features.EmotionalIntensity = clamp01((scores.Compound + 1) / 2)
	features.PositiveTone = clamp01(scores.Positive)
	features.NegativeTone = clamp01(scores.Negative)
	features.NeutralTone = clamp01(scores.Neutral)

	return features
}

// formality is 1 minus the density of informal markers per 100 words,
// scaled so ten markers per hundred words reads as fully informal.
func (x *FeatureExtractor) formality(text string, wordCount int) float64 {
	lower := strings.ToLower(text)
	informal := 0
	for _, pattern := range informalPatterns {
		informal += len(pattern.FindAllString(lower, -1))
	}

	density := float64(informal) / float64(wordCount) * 100
	return clamp01(1 - density/10)
}

// hasTypos reports whether text shows any mechanical imperfection or
// contains a known dataset misspelling.
func hasTypos(text string) bool {
	for _, pattern := range typoPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}

	lower := strings.ToLower(text)
	for _, known := range knownMisspellings {
		if strings.Contains(lower, known) {
			return true
		}
	}
	return false
}

// countSentences counts runs of terminal punctuation, treating any text
// with words as at least one sentence.
func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// readabilityScores computes Flesch Reading Ease and Flesch-Kincaid grade
// level. Text with no countable syllables gets moderate defaults.
func readabilityScores(words []string, sentences int) (ease, grade float64) {
	totalSyllables := 0
	for _, w := range words {
		totalSyllables += countSyllables(w)
	}
	if totalSyllables == 0 {
		return 50, 8
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(totalSyllables) / float64(len(words))

	ease = 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	grade = 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59
	return ease, grade
}

// countSyllables approximates English syllables by counting vowel groups,
// discounting a trailing silent e. Words with letters always count as at
// least one syllable; words with none count as zero.
func countSyllables(word string) int {
	word = strings.ToLower(word)

	hasLetter := false
	count := 0
	prevVowel := false
	for _, r := range word {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if !hasLetter {
		return 0
	}
	if count > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		count--
	}
	if count == 0 {
		return 1
	}
	return count
}
