package puzzle

import (
	"fmt"
	"strconv"
)

// assembleOptions shuffles the correct answer in among distractors and
// returns the 4-option slice plus the index of the correct one. Duplicate
// distractors are replaced with fillers that stay unique: offset values
// for numeric answers, suffixed variants otherwise.
func assembleOptions(rng *lockedRand, correct string, distractors ...string) ([]string, int) {
	seen := map[string]bool{correct: true}
	unique := make([]string, 0, 3)
	for _, d := range distractors {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
		if len(unique) == 3 {
			break
		}
	}
	for i := 1; len(unique) < 3; i++ {
		var filler string
		if n, err := strconv.Atoi(correct); err == nil {
			filler = strconv.Itoa(n + 3*i)
		} else {
			filler = fmt.Sprintf("%s%d", correct, i)
		}
		if !seen[filler] {
			seen[filler] = true
			unique = append(unique, filler)
		}
	}

	idx := rng.Intn(4)
	options := make([]string, 0, 4)
	options = append(options, unique...)
	// Insert correct at idx.
	options = append(options[:idx], append([]string{correct}, options[idx:]...)...)
	return options, idx
}
