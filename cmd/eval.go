package cmd

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/CraigKelly/logmix/buffer"
	"github.com/CraigKelly/logmix/model"
)

// EvalDensity evaluates the collapsed mixture log-density of every
// observation in the data file under the first draw in the model file, with
// running diagnostics: a split-window drift check over recent log-densities
// and a divergence score of mean responsibilities against the mixing
// weights.
func EvalDensity(sp *startupParams) error {
	cleanup, err := sp.Setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if len(sp.dataFile) < 1 {
		return errors.New("An observation file is required (see --data)")
	}

	// Read mixture from file
	sp.out.Printf("Reading mixture from %s\n", sp.modelFile)
	draws, err := model.LoadMixtureFile(sp.modelFile)
	if err != nil {
		return err
	}

	mix := draws[0]
	if len(draws) > 1 {
		sp.out.Printf("File has %d draws: eval uses the first (see predict for all)\n", len(draws))
	}
	sp.out.Printf("Mixture %s has %d components (dim %d)\n", mix.Name, mix.K(), mix.Dim())

	data, err := os.ReadFile(sp.dataFile)
	if err != nil {
		return errors.Wrapf(err, "Could not READ observations from %s", sp.dataFile)
	}
	xs, err := model.ReadObservations(data, mix.Dim())
	if err != nil {
		return errors.Wrapf(err, "Observation file %s", sp.dataFile)
	}
	sp.out.Printf("Read %d observations\n", len(xs))

	var mon *monitor
	if sp.monitorOn {
		mon = &monitor{}
		err = mon.Start(sp.monitorAddr)
		if err != nil {
			return err
		}
		defer mon.Stop()

		mon.Draws.Set(int64(len(draws)))
		mon.Components.Set(int64(mix.K()))
		mon.ObsTotal.Set(int64(len(xs)))
	}

	startTime := time.Now()
	window := buffer.NewCircularFloat(sp.window)

	respTot := make([]float64, mix.K())
	resp := make([]float64, mix.K())

	var finiteTot float64
	finiteCount := 0
	zeroCount := 0

	for n, x := range xs {
		ld, err := mix.LogDensity(x)
		if err != nil {
			return errors.Wrapf(err, "Observation %d", n)
		}

		sp.trace.Printf("%d %.8f\n", n, ld)

		if math.IsInf(ld, -1) {
			// Legal terminal value: zero density under every component
			zeroCount++
		} else {
			finiteTot += ld
			finiteCount++
			window.Add(ld)

			resp, err = mix.Responsibilities(x, resp)
			if err != nil {
				return errors.Wrapf(err, "Observation %d", n)
			}
			for k, rv := range resp {
				respTot[k] += rv
			}
		}

		if mon != nil {
			mon.ObsDone.Add(1)
			mon.ZeroDensity.Set(int64(zeroCount))
			mon.TotalLogDens.Set(finiteTot)
			if finiteCount > 0 {
				mon.MeanLogDens.Set(finiteTot / float64(finiteCount))
			}
			mon.RunTime.Set(time.Since(startTime).Seconds())
		}
	}

	sp.out.Printf("Evaluated %d observations in %.2f secs\n", len(xs), time.Since(startTime).Seconds())
	sp.out.Printf("Zero-density observations: %d\n", zeroCount)
	if finiteCount < 1 {
		sp.out.Printf("No finite log-densities: nothing more to report\n")
		return nil
	}

	sp.out.Printf("Total log-density: %.4f\n", finiteTot)
	sp.out.Printf("Mean log-density:  %.4f\n", finiteTot/float64(finiteCount))

	first := window.FirstHalf()
	second := window.SecondHalf()
	if first != nil {
		sp.out.Printf("Split-window drift (last %d): %.4f\n", window.BufSize, second.Mean()-first.Mean())
	} else {
		sp.out.Printf("Split-window drift: needs %d finite observations (have %d)\n", window.BufSize, window.Count)
	}

	// Under the model, mean responsibilities should match the mixing weights
	for k := range respTot {
		respTot[k] /= float64(finiteCount)
	}
	wd, err := model.NewWeightDivergence(respTot, mix.Weights())
	if err != nil {
		return errors.Wrap(err, "Could not score mean responsibilities")
	}
	sp.out.Printf(
		"Resp vs Weights | MeanAE:%7.4f MaxAE:%7.4f Hel:%7.4f JSD:%7.4f\n",
		wd.MeanAbsErr, wd.MaxAbsErr, wd.Hellinger, wd.JSDiverge,
	)

	return nil
}
