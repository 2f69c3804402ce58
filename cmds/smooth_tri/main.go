package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/smooth-tri/polymesh"
	"github.com/unixpickle/smooth-tri/scene"
	"github.com/unixpickle/smooth-tri/smoothtri"
	"golang.org/x/term"
)

const (
	defaultColor = "\x1b[0m"
	statusColor  = "\x1b[36m"
	successColor = "\x1b[32m"
	errorColor   = "\x1b[31m"
)

func main() {
	var selection string
	var rest bool
	var configPath string
	var threshold float64
	var gapRatio float64
	var stlPath string
	var verbose bool
	flag.StringVar(&selection, "select", "all",
		"faces to triangulate: 'all' or a comma-separated list of face indices")
	flag.BoolVar(&rest, "rest", false, "analyze the rest shape instead of the pose")
	flag.StringVar(&configPath, "config", "", "JSON file with triangulation options")
	flag.Float64Var(&threshold, "threshold", smoothtri.DefaultAngleDiffThreshold,
		"score difference (radians) above which a diagonal is chosen directly")
	flag.Float64Var(&gapRatio, "gap-ratio", smoothtri.DefaultAdjacentGapRatio,
		"weight of the adjacent gap difference in the tie-break")
	flag.StringVar(&stlPath, "stl", "", "also save the triangulated mesh as an STL file")
	flag.BoolVar(&verbose, "verbose", false, "log the decisions made for every object")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: smooth_tri [flags] <input.obj> <output.obj>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	opts := smoothtri.DefaultOptions()
	if configPath != "" {
		var err error
		opts, err = smoothtri.LoadOptions(configPath)
		essentials.Must(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rest":
			opts.UsePoseShapeKeys = !rest
		case "threshold":
			opts.AngleDiffThreshold = threshold
		case "gap-ratio":
			opts.AdjacentGapRatio = gapRatio
		case "verbose":
			opts.Verbose = verbose
		}
	})

	log.Println("Loading mesh...")
	mesh, err := polymesh.Load(inputPath, polymesh.ReadOBJ)
	essentials.Must(err)
	faces, err := parseSelection(selection, len(mesh.Faces))
	essentials.Must(err)

	doc := scene.NewDocument()
	obj := doc.AddObject(objectName(inputPath), mesh.WithSelection(faces))
	essentials.Must(doc.Select(obj, true))
	essentials.Must(doc.SetActive(obj))
	essentials.Must(doc.SetMode(scene.EditMode))

	log.Printf("Triangulating %d selected faces...", len(faces))
	result, err := smoothtri.Run(doc, opts)
	if err != nil {
		essentials.Die(colorize(errorColor, err.Error()))
	}
	if result.Cancelled {
		fmt.Println(colorize(statusColor, result.String()))
	} else {
		fmt.Println(colorize(successColor, result.String()))
	}

	essentials.Must(doc.SetMode(scene.ObjectMode))
	output := doc.Mesh(obj)

	log.Println("Writing output...")
	essentials.Must(polymesh.Save(outputPath, output, polymesh.WriteOBJ))
	if stlPath != "" {
		evaluated, err := doc.Evaluated(obj)
		essentials.Must(err)
		essentials.Must(evaluated.TriangleMesh().SaveGroupedSTL(stlPath))
	}
}

func parseSelection(selection string, numFaces int) ([]int, error) {
	if selection == "all" {
		res := make([]int, numFaces)
		for i := range res {
			res[i] = i
		}
		return res, nil
	}
	var res []int
	for _, field := range strings.Split(selection, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrap(err, "parse selection")
		}
		if idx < 0 || idx >= numFaces {
			return nil, errors.Errorf("parse selection: face %d out of range", idx)
		}
		res = append(res, idx)
	}
	return res, nil
}

func objectName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, "/\\"); i != -1 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".obj")
}

// colorize decorates msg only when stdout is a terminal.
func colorize(color, msg string) string {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return color + msg + defaultColor
	}
	return msg
}
