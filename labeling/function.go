package labeling

import (
	"regexp"
	"strings"

	"github.com/hupe1980/weaklabel/model"
)

// Func is the body of a labeling function.
// Implementations must be deterministic and free of side effects.
type Func func(text string) (model.Label, error)

// LabelingFunction is a named heuristic. Its name is its identity.
type LabelingFunction struct {
	name string
	fn   Func
}

// New creates a labeling function.
func New(name string, fn Func) LabelingFunction {
	return LabelingFunction{name: name, fn: fn}
}

// Name returns the function name.
func (lf LabelingFunction) Name() string { return lf.name }

// Apply calls the function without any recovery.
func (lf LabelingFunction) Apply(text string) (model.Label, error) {
	return lf.fn(text)
}

// Keywords votes label when the lowercased text contains any of the keywords.
func Keywords(name string, label model.Label, keywords ...string) LabelingFunction {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}

	return New(name, func(text string) (model.Label, error) {
		text = strings.ToLower(text)
		for _, kw := range lowered {
			if strings.Contains(text, kw) {
				return label, nil
			}
		}
		return model.Abstain, nil
	})
}

// Regexp votes label when pattern matches the text.
func Regexp(name string, label model.Label, pattern string) (LabelingFunction, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return LabelingFunction{}, err
	}

	return New(name, func(text string) (model.Label, error) {
		if re.MatchString(text) {
			return label, nil
		}
		return model.Abstain, nil
	}), nil
}

// MustRegexp is like Regexp but panics on an invalid pattern.
func MustRegexp(name string, label model.Label, pattern string) LabelingFunction {
	lf, err := Regexp(name, label, pattern)
	if err != nil {
		panic(err)
	}
	return lf
}
