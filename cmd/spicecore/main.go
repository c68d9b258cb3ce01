// Command spicecore is a thin driver over the MNA transient core: it
// reads a netlist file, steps the solver from 0 to tstop, and prints a
// results table. It is a convenience wrapper, not part of the core's
// tested contract.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kesslern/mnacore/pkg/element"
	"github.com/kesslern/mnacore/pkg/netlist"
	"github.com/kesslern/mnacore/pkg/solver"
	"github.com/kesslern/mnacore/pkg/util"
)

func main() {
	tstep := flag.Float64("tstep", 0, "override the netlist's .tran timestep (seconds)")
	tstop := flag.Float64("tstop", 0, "override the netlist's .tran stop time (seconds)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: spicecore [-tstep s] [-tstop s] <netlist-file>")
	}

	nl, tran, err := netlist.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading netlist: %v", err)
	}

	if *tstep > 0 {
		tran.TStep = *tstep
	}
	if *tstop > 0 {
		tran.TStop = *tstop
	}
	if tran.TStep <= 0 || tran.TStop <= 0 {
		log.Fatal("no .tran directive found and no -tstep/-tstop override given")
	}

	driver := solver.New(nl)

	fmt.Printf("%-10s", "Time")
	for _, c := range nl.Components() {
		fmt.Printf("%-18s", fmt.Sprintf("V(%s)", c.Name()))
		fmt.Printf("%-18s", fmt.Sprintf("I(%s)", c.Name()))
	}
	fmt.Println()

	for t := tran.TStep; t <= tran.TStop+tran.TStep/2; t += tran.TStep {
		if err := driver.Step(tran.TStep); err != nil {
			log.Fatalf("step at t=%s: %v", util.FormatTime(t), err)
		}
		printRow(driver.Time(), nl.Components())
	}
}

func printRow(t float64, components []element.Component) {
	fmt.Printf("%-10s", util.FormatTime(t))
	for _, c := range components {
		fmt.Printf("%-18s", util.FormatValueFactor(c.Voltage(), "V"))
		fmt.Printf("%-18s", util.FormatValueFactor(c.Current(), "A"))
	}
	fmt.Println()
}
