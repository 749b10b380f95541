package ensemble

import (
	"github.com/pbanos/grove/errors"
	"github.com/pbanos/grove/feature"
)

/*
Vote takes the predictions of every member of an ensemble, one slice per
member with a label per sample, and returns the label with the most votes
for every sample. When several labels get the most votes, the one
predicted by the earliest member wins.
*/
func Vote(predictions [][]feature.Value) ([]feature.Value, error) {
	if len(predictions) == 0 {
		return nil, errors.Errorf(errors.EmptyInput, "no predictions to vote on")
	}
	n := len(predictions[0])
	for i, p := range predictions {
		if len(p) != n {
			return nil, errors.Errorf(errors.ShapeMismatch, "member %d predicted %d samples, member 0 predicted %d", i, len(p), n)
		}
	}
	result := make([]feature.Value, n)
	votes := make(map[feature.Value]int)
	for s := 0; s < n; s++ {
		for k := range votes {
			delete(votes, k)
		}
		var winner feature.Value
		max := 0
		for _, p := range predictions {
			votes[p[s]]++
		}
		for _, p := range predictions {
			if c := votes[p[s]]; c > max {
				winner, max = p[s], c
			}
		}
		result[s] = winner
	}
	return result, nil
}
