package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Mixture definition file format (TOML). A file holds one or more [[draw]]
// blocks - typically one for a fixed model, or S blocks for S posterior
// parameter draws of the same mixture. Each draw lists [[draw.component]]
// blocks with a family name, a weight (probability-space "weight" or
// log-space "logweight" - one kind per draw), and family parameters:
//
//	name = "example"
//
//	[[draw]]
//	  [[draw.component]]
//	  family = "normal"
//	  weight = 0.4
//	  mu = 0.0
//	  sigma = 1.0
//
//	  [[draw.component]]
//	  family = "normal"
//	  weight = 0.6
//	  mu = 4.0
//	  sigma = 2.0
//
// Families: normal (mu, sigma), exponential (rate), indepnormal (muvec,
// sigmavec).

type mixFile struct {
	Name  string    `toml:"name"`
	Draws []mixDraw `toml:"draw"`
}

type mixDraw struct {
	Components []mixComponent `toml:"component"`
}

type mixComponent struct {
	Family    string    `toml:"family"`
	Weight    *float64  `toml:"weight"`
	LogWeight *float64  `toml:"logweight"`
	Mu        float64   `toml:"mu"`
	Sigma     float64   `toml:"sigma"`
	Rate      float64   `toml:"rate"`
	MuVec     []float64 `toml:"muvec"`
	SigmaVec  []float64 `toml:"sigmavec"`
}

// component builds the Component described by one TOML block
func (mc *mixComponent) component(idx int) (Component, error) {
	switch mc.Family {
	case "normal":
		return NewNormal(mc.Mu, mc.Sigma)
	case "exponential":
		return NewExponential(mc.Rate)
	case "indepnormal":
		return NewIndepNormal(mc.MuVec, mc.SigmaVec)
	default:
		return nil, errors.Errorf("Component %d has unknown family %q", idx, mc.Family)
	}
}

// mixture builds one Mixture from a draw block
func (md *mixDraw) mixture(name string) (*Mixture, error) {
	if len(md.Components) < 1 {
		return nil, errors.Wrapf(ErrEmptyMixture, "draw %s has no components", name)
	}

	comps := make([]Component, len(md.Components))
	logSpace := md.Components[0].LogWeight != nil

	weights := make([]float64, len(md.Components))
	for i := range md.Components {
		mc := &md.Components[i]

		c, err := mc.component(i)
		if err != nil {
			return nil, errors.Wrapf(err, "Draw %s", name)
		}
		comps[i] = c

		if mc.Weight != nil && mc.LogWeight != nil {
			return nil, errors.Errorf("Draw %s component %d has both weight and logweight", name, i)
		}
		if logSpace {
			if mc.LogWeight == nil {
				return nil, errors.Errorf("Draw %s component %d is missing logweight", name, i)
			}
			weights[i] = *mc.LogWeight
		} else {
			if mc.Weight == nil {
				return nil, errors.Errorf("Draw %s component %d is missing weight", name, i)
			}
			weights[i] = *mc.Weight
		}
	}

	if logSpace {
		return NewMixtureLogWeights(name, weights, comps)
	}
	return NewMixture(name, weights, comps)
}

// ParseMixtures parses a mixture definition buffer into one Mixture per
// [[draw]] block. Each mixture is Check()ed by its constructor.
func ParseMixtures(data []byte) ([]*Mixture, error) {
	var mf mixFile
	err := toml.Unmarshal(data, &mf)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE mixture file")
	}

	if len(mf.Draws) < 1 {
		return nil, errors.Errorf("Mixture file has no [[draw]] blocks")
	}

	draws := make([]*Mixture, len(mf.Draws))
	for i := range mf.Draws {
		name := mf.Name
		if len(mf.Draws) > 1 {
			name = fmt.Sprintf("%s[%d]", mf.Name, i)
		}

		draws[i], err = mf.Draws[i].mixture(name)
		if err != nil {
			return nil, err
		}
	}

	return draws, nil
}

// LoadMixtureFile reads and parses a TOML mixture definition file. If the
// file has no name entry, the file name (minus extension) is used.
func LoadMixtureFile(filename string) ([]*Mixture, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ mixture file %s", filename)
	}

	draws, err := ParseMixtures(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Mixture file %s", filename)
	}

	for _, m := range draws {
		if len(m.Name) < 1 || m.Name[0] == '[' {
			ext := filepath.Ext(filename)
			m.Name = filename[0:len(filename)-len(ext)] + m.Name
		}
	}

	return draws, nil
}
