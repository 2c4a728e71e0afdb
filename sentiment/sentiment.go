// Package sentiment holds the labeling functions for Mongolian social-media
// sentiment.
//
// The set is fixed at compile time. Adding or removing a function changes the
// column count of every label matrix built from Registry, so artifacts record
// the function names they were trained with.
package sentiment

import (
	"strings"
	"unicode"

	"github.com/hupe1980/weaklabel/labeling"
	"github.com/hupe1980/weaklabel/model"
)

// Words votes label when any whole token of the lowercased text is one of words.
func Words(name string, label model.Label, words ...string) labeling.LabelingFunction {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}

	return labeling.New(name, func(text string) (model.Label, error) {
		for _, tok := range tokens(text) {
			if _, ok := set[tok]; ok {
				return label, nil
			}
		}
		return model.Abstain, nil
	})
}

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Functions returns the labeling functions in column order.
func Functions() []labeling.LabelingFunction {
	return []labeling.LabelingFunction{
		labeling.Keywords("lf_hate", model.Negative,
			"үзэн ядаж", "үзэн ядна", "үзэн ядах", "үзэн ядсан"),
		Words("lf_insult", model.Negative,
			"тэнэг", "новш", "гөлөг", "сда", "sda", "гшш", "хогийн", "балай"),
		Words("lf_bad", model.Negative,
			"муу", "муухай", "аймшигтай", "харамсалтай", "залхаж", "уурлаж"),
		labeling.MustRegexp("lf_negative_emoticon", model.Negative,
			`(?:^|\s)[:;]-?[(\[]|😡|😠|😢|😭|👎`),
		Words("lf_good", model.Positive,
			"гоё", "сайхан", "гайхалтай", "сайн", "мундаг", "гоёмсог"),
		labeling.Keywords("lf_thanks", model.Positive,
			"баярлалаа", "хайртай", "талархлаа", "амжилт хүсье"),
		labeling.MustRegexp("lf_positive_emoticon", model.Positive,
			`(?:^|\s)[:;]-?[)\]D]|❤|😍|😊|🥰|👍`),
	}
}

// Registry returns a registry of Functions.
func Registry() *labeling.Registry {
	return labeling.MustRegistry(Functions()...)
}
