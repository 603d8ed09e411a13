package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logmix/model"
	"github.com/CraigKelly/logmix/rand"
)

// pickComponent maps a uniform draw to a component index via the cumulative
// mixing weights.
func pickComponent(cum []float64, u float64) int {
	for k, c := range cum {
		if u < c {
			return k
		}
	}
	return len(cum) - 1
}

// Simulate draws observations from the first mixture draw in the model file
// and writes them in observation-file format (so they can feed eval). Output
// goes to the trace file if one was given, otherwise stdout.
func Simulate(sp *startupParams) error {
	cleanup, err := sp.Setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if sp.simCount < 1 {
		return errors.Errorf("Invalid observation count %d", sp.simCount)
	}

	sp.out.Printf("Reading mixture from %s\n", sp.modelFile)
	draws, err := model.LoadMixtureFile(sp.modelFile)
	if err != nil {
		return err
	}
	mix := draws[0]
	sp.out.Printf("Mixture %s has %d components (dim %d)\n", mix.Name, mix.K(), mix.Dim())

	gen, err := rand.NewGenerator(sp.randomSeed)
	if err != nil {
		return err
	}

	// Cumulative weights for the categorical component pick
	cum := make([]float64, mix.K())
	var running float64
	for k, w := range mix.Weights() {
		running += w
		cum[k] = running
	}

	var target *log.Logger
	if len(sp.traceFile) > 0 {
		sp.out.Printf("Writing observations to %s\n", sp.traceFile)
		target = sp.trace
	} else {
		target = sp.out
	}

	target.Printf("# %d observations simulated from %s (seed %d)\n", sp.simCount, mix.Name, sp.randomSeed)

	counts := make([]int, mix.K())
	x := make([]float64, mix.Dim())
	fields := make([]string, mix.Dim())

	for i := 0; i < sp.simCount; i++ {
		k := pickComponent(cum, gen.Float64())
		counts[k]++

		x = mix.Comps[k].Rand(gen, x)
		for j, v := range x {
			fields[j] = fmt.Sprintf("%g", v)
		}
		target.Printf("%s\n", strings.Join(fields, " "))
	}

	// Comment line so the output is still a readable observation file
	target.Printf("# component draw counts: %v\n", counts)

	return nil
}
