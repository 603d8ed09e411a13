package cmd

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

type monitor struct {
	info    *expvar.Map
	stopped chan struct{}
	server  *http.Server

	Draws        *expvar.Int
	Components   *expvar.Int
	ObsTotal     *expvar.Int
	ObsDone      *expvar.Int
	ZeroDensity  *expvar.Int
	MeanLogDens  *expvar.Float
	TotalLogDens *expvar.Float
	RunTime      *expvar.Float
}

// Start begins the monitor
func (m *monitor) Start(addr string) error {
	if m.info != nil {
		return errors.Errorf("BUG: You may only start the process monitor once")
	}

	m.info = expvar.NewMap("logmix-progress")
	m.stopped = make(chan struct{})
	m.server = &http.Server{
		Addr: addr,
	}

	// Help the user and redirect to the only thing currently available:
	// the handler from the expvar package
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/debug/vars", http.StatusTemporaryRedirect)
	})

	m.Draws = expvar.NewInt("Posterior-Draws")
	m.Components = expvar.NewInt("Component-Count")
	m.ObsTotal = expvar.NewInt("Observation-Count")
	m.ObsDone = expvar.NewInt("Observations-Evaluated")
	m.ZeroDensity = expvar.NewInt("Zero-Density-Observations")
	m.MeanLogDens = expvar.NewFloat("Mean-Log-Density")
	m.TotalLogDens = expvar.NewFloat("Total-Log-Density")
	m.RunTime = expvar.NewFloat("Run-Time")

	// Actual server that will close the stopped channel on exit
	started := make(chan struct{})
	go func() {
		defer close(m.stopped)
		fmt.Fprintf(os.Stderr, "HTTP now available at %v (see debug/vars/)\n", m.server.Addr)
		close(started)
		m.server.ListenAndServe()
	}()

	<-started
	return nil
}

func (m *monitor) Stop() {
	if m.info == nil {
		return
	}

	m.server.Close()

	select {
	case <-m.stopped:
		fmt.Fprintf(os.Stderr, "HTTP Info Stopped\n")
	case <-time.After(2 * time.Second):
		fmt.Fprintf(os.Stderr, "HTTP would NOT stop: just continuing on\n")
	}
}
