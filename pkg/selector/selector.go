// Package selector picks the key questions presented to the user.
package selector

// DefaultBound is the number of key questions sent back to the user.
const DefaultBound = 6

// Select returns the first min(bound, len(questions)) questions in order.
// Selection is positional: earlier questions are taken to be the important
// ones. A negative bound selects nothing. The result never aliases questions.
func Select(questions []string, bound int) []string {
	n := bound
	if n < 0 {
		n = 0
	}
	if n > len(questions) {
		n = len(questions)
	}

	selected := make([]string, n)
	copy(selected, questions[:n])
	return selected
}
