package main

import(
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hdrstudy/tonebatch/pkg/batch"
	"github.com/hdrstudy/tonebatch/pkg/tonemap"
)

var(
	fConfig string
	fVerbosity int
	fInputDir string
	fOutputDir string
	fWorkers int
	fPreviewMaxPx int
	fDumpGrids bool

	// single-file mode
	fOutput string
	fShadowGamma float64
	fStops float64
)

func init() {
	flag.StringVar(&fConfig, "config", "", "YAML config file (flags override it)")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")

	flag.StringVar(&fInputDir, "in", "", "directory of decoded linear source images (.tif/.tiff/.hdr)")
	flag.StringVar(&fOutputDir, "out", "", "output directory (created if missing)")
	flag.IntVar(&fWorkers, "workers", 0, "worker pool size (0 = one per CPU)")
	flag.IntVar(&fPreviewMaxPx, "preview", 0, "if >0, also write JPEG previews no larger than this")
	flag.BoolVar(&fDumpGrids, "dumpgrids", false, "write greyscale images of the intermediate grids")

	flag.StringVar(&fOutput, "o", "", "single-file mode: output path")
	flag.Float64Var(&fShadowGamma, "sg", 1.15, "single-file mode: shadow gamma (>1 lifts shadows)")
	flag.Float64Var(&fStops, "st", 0.0, "single-file mode: exposure push in stops")

	flag.Parse()

	log.Printf("tonebatch starting\n")
}

func main() {
	cfg := batch.NewConfig()
	if fConfig != "" {
		var err error
		if cfg, err = batch.LoadConfig(fConfig); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if fInputDir != ""     { cfg.InputDir = fInputDir }
	if fOutputDir != ""    { cfg.OutputDir = fOutputDir }
	if fWorkers > 0        { cfg.Workers = fWorkers }
	if fPreviewMaxPx > 0   { cfg.PreviewMaxPx = fPreviewMaxPx }
	if fDumpGrids          { cfg.DumpGrids = true }
	if fVerbosity > 0      { cfg.Verbosity = fVerbosity }

	if flag.NArg() > 0 {
		// Single-file mode: one image, explicit parameters, no preset table.
		runSingle(cfg, flag.Arg(0))
		return
	}

	if cfg.InputDir == "" {
		log.Fatalf("provide an input file, or -in for batch mode")
	}

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	driver, err := batch.NewDriver(cfg, tonemap.DefaultPresets())
	if err != nil {
		log.Fatalf("%v", err) // bad preset table; nothing has been processed
	}

	report, err := driver.Run()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if report.DecodeFailures+report.EncodeFailures > 0 {
		os.Exit(1)
	}
}

func runSingle(cfg batch.Config, srcPath string) {
	params := tonemap.ToneParameters{ShadowGamma: fShadowGamma, Stops: fStops}
	if err := params.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	img, err := batch.DecodeSource(srcPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	op := tonemap.NewBaseDetail(img, params)
	op.DumpGrids = cfg.DumpGrids
	out, err := op.Run()
	if err != nil {
		log.Fatalf("%v", err)
	}

	outPath := fOutput
	if outPath == "" {
		ext := filepath.Ext(srcPath)
		outPath = strings.TrimSuffix(srcPath, ext) + "_tonemapped.png"
	}
	if err := batch.WritePNG(out, outPath); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %s", outPath)
}
