package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/smoothtri"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "JSON file with triangulation options")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: quad_report [flags] <input.obj>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath := args[0]

	opts := smoothtri.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = smoothtri.LoadOptions(configPath)
		essentials.Must(err)
	}

	log.Println("Loading mesh...")
	mesh, err := polymesh.Load(inputPath, polymesh.ReadOBJ)
	essentials.Must(err)
	all := make([]int, len(mesh.Faces))
	for i := range all {
		all[i] = i
	}
	mesh = mesh.WithSelection(all)

	log.Println("Comparing against subdivided surface...")
	topo, plan, err := smoothtri.PlanMesh(mesh, opts)
	essentials.Must(err)

	fmt.Println("Number of faces:", len(mesh.Faces))
	fmt.Println("Number of quads:", len(topo.SelectedQuads))
	fmt.Println("Number of doublets:", len(topo.Doublets))
	fmt.Println("Number of n-gons:", topo.NGonCount)
	fmt.Println()
	fmt.Printf("%6s %9s %9s %9s %9s %9s  %s\n", "quad", "diff_fix", "diff_alt", "gap_fix",
		"gap_alt", "favor", "verdict")
	for _, c := range plan.Comparisons {
		favor := "-"
		if c.TieBreak {
			favor = fmt.Sprintf("%9.4f", c.Favor)
		}
		fmt.Printf("%6d %9.4f %9.4f %9.4f %9.4f %9s  %s\n", c.Quad, c.DiffFixed, c.DiffAlter,
			c.GapFixed, c.GapAlter, favor, c.Verdict)
	}
	for _, q := range topo.DoubletQuads() {
		rule := smoothtri.DoubletVerdict(mesh.Faces[q].Vertices, topo.Doublets[q])
		fmt.Printf("%6d %9s %9s %9s %9s %9s  %s (doublet)\n", q, "-", "-", "-", "-", "-", rule)
	}
	fmt.Println()
	fmt.Printf("fixed=%d alternate=%d beauty=%d\n", len(plan.Fixed), len(plan.Alternate),
		len(plan.Beauty))
}
