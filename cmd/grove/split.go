package main

import (
	"math/rand"

	"github.com/pbanos/grove/feature"
)

// split assigns every sample to the split set with the given probability
// as percent, and to the output set otherwise
func split(r *rand.Rand, probability int, X [][]feature.Value, y []feature.Value) ([][]feature.Value, []feature.Value, [][]feature.Value, []feature.Value) {
	var outputX, splitX [][]feature.Value
	var outputY, splitY []feature.Value
	for i := range X {
		if (100 * r.Float32()) > float32(probability) {
			outputX = append(outputX, X[i])
			outputY = append(outputY, y[i])
		} else {
			splitX = append(splitX, X[i])
			splitY = append(splitY, y[i])
		}
	}
	return outputX, outputY, splitX, splitY
}
