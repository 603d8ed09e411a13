package main

import "github.com/CraigKelly/logmix/cmd"

// TODO: streaming observation reader so eval does not hold the whole data file in memory
// TODO: sim should optionally emit the chosen component per row for labeled test data

func main() {
	cmd.Execute()
}
