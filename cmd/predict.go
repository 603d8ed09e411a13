package cmd

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logmix/model"
)

// PosteriorPredict approximates the posterior-predictive log-density of
// every observation in the data file by averaging per-draw mixture
// log-densities over all draws in the model file.
func PosteriorPredict(sp *startupParams) error {
	cleanup, err := sp.Setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if len(sp.dataFile) < 1 {
		return errors.New("An observation file is required (see --data)")
	}

	sp.out.Printf("Reading mixture draws from %s\n", sp.modelFile)
	draws, err := model.LoadMixtureFile(sp.modelFile)
	if err != nil {
		return err
	}
	sp.out.Printf("Read %d posterior draws (%d components, dim %d)\n",
		len(draws), draws[0].K(), draws[0].Dim())

	data, err := os.ReadFile(sp.dataFile)
	if err != nil {
		return errors.Wrapf(err, "Could not READ observations from %s", sp.dataFile)
	}
	xs, err := model.ReadObservations(data, draws[0].Dim())
	if err != nil {
		return errors.Wrapf(err, "Observation file %s", sp.dataFile)
	}
	sp.out.Printf("Read %d observations\n", len(xs))

	startTime := time.Now()

	preds, err := model.PosteriorPredictive(draws, xs)
	if err != nil {
		return err
	}

	var finiteTot float64
	finiteCount := 0
	zeroCount := 0

	for n, ld := range preds {
		sp.trace.Printf("%d %.8f\n", n, ld)
		if math.IsInf(ld, -1) {
			zeroCount++
		} else {
			finiteTot += ld
			finiteCount++
		}
	}

	sp.out.Printf("Evaluated %d observations x %d draws in %.2f secs\n",
		len(xs), len(draws), time.Since(startTime).Seconds())
	sp.out.Printf("Zero-density observations: %d\n", zeroCount)
	if finiteCount > 0 {
		sp.out.Printf("Mean predictive log-density: %.4f\n", finiteTot/float64(finiteCount))
	}

	return nil
}
