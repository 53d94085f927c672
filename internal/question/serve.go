package question

import "math/rand"

// Serve returns a shuffled, candidate-safe view of the bank slice: inactive
// entries are dropped, answer keys are stripped, and at most quota questions
// are returned (quota <= 0 means no limit).
func Serve(r *rand.Rand, qs []Question, quota int) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if !q.Active {
			continue
		}
		q.CorrectAnswer = ""
		out = append(out, q)
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if quota > 0 && len(out) > quota {
		out = out[:quota]
	}
	return out
}
