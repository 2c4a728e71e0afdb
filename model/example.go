package model

// Example is an immutable text record with a stable identifier.
type Example struct {
	ID   string
	Text string
}

// Texts returns the text of every example, in order.
func Texts(examples []Example) []string {
	texts := make([]string, len(examples))
	for i, ex := range examples {
		texts[i] = ex.Text
	}
	return texts
}
