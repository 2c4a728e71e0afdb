package classifier

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// VectorizerConfig configures a Vectorizer.
type VectorizerConfig struct {
	NGramMin    int `json:"ngram_min"`
	NGramMax    int `json:"ngram_max"`
	MaxFeatures int `json:"max_features"`
	// MinTokenRunes drops shorter tokens.
	MinTokenRunes int `json:"min_token_runes"`
}

// DefaultVectorizerConfig returns word 1..3-grams capped at 3000 features.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		NGramMin:      1,
		NGramMax:      3,
		MaxFeatures:   3000,
		MinTokenRunes: 2,
	}
}

func (c VectorizerConfig) withDefaults() VectorizerConfig {
	d := DefaultVectorizerConfig()
	if c.NGramMin <= 0 {
		c.NGramMin = d.NGramMin
	}
	if c.NGramMax < c.NGramMin {
		c.NGramMax = c.NGramMin
	}
	if c.MinTokenRunes <= 0 {
		c.MinTokenRunes = d.MinTokenRunes
	}
	return c
}

// Vectorizer maps text to n-gram counts over a fixed vocabulary.
type Vectorizer struct {
	cfg   VectorizerConfig
	terms []string
	vocab map[string]int
}

// NewVectorizer creates an unfitted vectorizer. MaxFeatures <= 0 keeps every term.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	return &Vectorizer{cfg: cfg.withDefaults()}
}

// Tokenize lowercases text and splits it into runs of letters, digits and
// underscores of at least MinTokenRunes runes.
func (v *Vectorizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= v.cfg.MinTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ngrams returns the n-grams of text, joined by single spaces.
func (v *Vectorizer) ngrams(text string) []string {
	tokens := v.Tokenize(text)
	var out []string
	for n := v.cfg.NGramMin; n <= v.cfg.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit builds the vocabulary from texts. When MaxFeatures caps it, the most
// frequent terms win and equal counts are broken lexicographically.
func (v *Vectorizer) Fit(texts []string) error {
	counts := make(map[string]int)
	for _, t := range texts {
		for _, g := range v.ngrams(t) {
			counts[g]++
		}
	}
	if len(counts) == 0 {
		return ErrEmptyVocabulary
	}

	terms := slices.Collect(maps.Keys(counts))
	if v.cfg.MaxFeatures > 0 && len(terms) > v.cfg.MaxFeatures {
		slices.SortFunc(terms, func(a, b string) int {
			if counts[a] != counts[b] {
				return counts[b] - counts[a]
			}
			return strings.Compare(a, b)
		})
		terms = terms[:v.cfg.MaxFeatures]
	}
	slices.Sort(terms)
	v.setVocabulary(terms)
	return nil
}

func (v *Vectorizer) setVocabulary(terms []string) {
	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	for i, t := range terms {
		v.vocab[t] = i
	}
}

// Transform counts vocabulary terms in each text.
func (v *Vectorizer) Transform(texts []string) ([]SparseVector, error) {
	if v.vocab == nil {
		return nil, ErrNotFitted
	}
	out := make([]SparseVector, len(texts))
	for i, t := range texts {
		counts := make(map[int]float64)
		for _, g := range v.ngrams(t) {
			if idx, ok := v.vocab[g]; ok {
				counts[idx]++
			}
		}
		idx := slices.Sorted(maps.Keys(counts))
		vals := make([]float64, len(idx))
		for k, ix := range idx {
			vals[k] = counts[ix]
		}
		out[i] = SparseVector{Indices: idx, Values: vals}
	}
	return out, nil
}

// FitTransform fits the vocabulary and transforms texts.
func (v *Vectorizer) FitTransform(texts []string) ([]SparseVector, error) {
	if err := v.Fit(texts); err != nil {
		return nil, err
	}
	return v.Transform(texts)
}

// Vocabulary returns the sorted vocabulary.
func (v *Vectorizer) Vocabulary() []string {
	return slices.Clone(v.terms)
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int { return len(v.terms) }

// VectorizerState is the serializable form of a fitted vectorizer.
type VectorizerState struct {
	Config VectorizerConfig `json:"config"`
	Terms  []string         `json:"terms"`
}

// State exports the fitted vectorizer.
func (v *Vectorizer) State() (*VectorizerState, error) {
	if v.vocab == nil {
		return nil, ErrNotFitted
	}
	return &VectorizerState{Config: v.cfg, Terms: slices.Clone(v.terms)}, nil
}

// NewVectorizerFromState restores a fitted vectorizer.
func NewVectorizerFromState(st *VectorizerState) (*Vectorizer, error) {
	if st == nil || len(st.Terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	v := NewVectorizer(st.Config)
	v.setVocabulary(slices.Clone(st.Terms))
	return v, nil
}
