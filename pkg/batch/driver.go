package batch

import(
	"log"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/codahale/hdrhistogram"
	"github.com/skypies/util/histogram"

	"github.com/hdrstudy/tonebatch/pkg/limg"
	"github.com/hdrstudy/tonebatch/pkg/tonemap"
)

// The Driver walks every (source image, preset) pair: enumerate the input
// directory, decode each source once, run the tone-mapping pipeline per
// preset on a bounded worker pool, and write outputs atomically. A bad
// file or a failed write is logged and counted, never fatal; the batch
// always runs to completion. Only a bad preset table aborts, and that is
// caught before any work starts.
type Driver struct {
	Config
	Presets []tonemap.Preset
}

// A Report summarises one batch run.
type Report struct {
	Sources        int // files found in the input directory
	Pairs          int // (file, preset) pairs attempted
	Written        int // outputs at their final paths
	DecodeFailures int
	EncodeFailures int
}

func NewDriver(cfg Config, presets []tonemap.Preset) (*Driver, error) {
	if err := tonemap.ValidatePresets(presets); err != nil {
		return nil, err
	}
	return &Driver{Config: cfg, Presets: presets}, nil
}

// A job is one (file, preset) pipeline run. The LinearImage is decoded
// once per file and shared read-only by that file's jobs.
type job struct {
	srcPath string
	img     *limg.LinearImage
	n       int // 1-based preset table position
	preset  tonemap.Preset
}

func (d *Driver)Run() (Report, error) {
	files, err := EnumerateSources(d.InputDir)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	if len(files) == 0 {
		log.Printf("no source images in %s, nothing to do", d.InputDir)
		return report, nil
	}

	durations := hdrhistogram.New(1, 3600000, 3) // per-pair wall time, ms

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan job)

	for i := 0; i < d.NumWorkers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				start := time.Now()
				err := d.processPair(j)

				mu.Lock()
				ms := time.Since(start).Milliseconds()
				if ms < 1 { ms = 1 }
				_ = durations.RecordValue(ms)
				if err != nil {
					log.Printf("[SKIP] %v", err)
					report.EncodeFailures++
				} else {
					report.Written++
				}
				mu.Unlock()
			}
		}()
	}

	for _, f := range files {
		report.Sources++

		img, err := DecodeSource(f)
		if err != nil {
			log.Printf("[SKIP] %v", err)
			report.DecodeFailures++
			continue
		}
		if d.Verbosity > 0 {
			d.logLuminanceHistogram(f, img)
		}

		for i, p := range d.Presets {
			report.Pairs++
			jobs <- job{srcPath: f, img: img, n: i + 1, preset: p}
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("batch done: %d sources, %d pairs, %d written, %d decode failures, %d encode failures",
		report.Sources, report.Pairs, report.Written, report.DecodeFailures, report.EncodeFailures)
	if report.Written > 0 {
		log.Printf("pair wall time: p50=%dms p90=%dms max=%dms",
			durations.ValueAtQuantile(50), durations.ValueAtQuantile(90), durations.Max())
	}

	return report, nil
}

// processPair runs the pipeline for one (file, preset) pair and writes
// the output (plus the optional preview). Any error is per-pair.
func (d *Driver)processPair(j job) error {
	name := OutputName(j.srcPath, j.n, j.preset.ToneParameters)

	op := tonemap.NewBaseDetail(j.img, j.preset.ToneParameters)
	if d.DumpGrids {
		op.DumpGrids = true
		op.DumpPrefix = filepath.Join(d.OutputDir, strings.TrimSuffix(name, ".png")+"-")
	}

	out, err := op.Run()
	if err != nil {
		return EncodeFailure{Path: name, Preset: j.n, Err: err}
	}

	path := filepath.Join(d.OutputDir, name)
	if err := WritePNG(out, path); err != nil {
		return EncodeFailure{Path: path, Preset: j.n, Err: err}
	}
	if d.Verbosity > 0 {
		log.Printf("wrote %s", path)
	}

	if d.PreviewMaxPx > 0 {
		ppath := filepath.Join(d.OutputDir, "previews", PreviewName(name))
		if err := WriteJPEGPreview(out, ppath, d.PreviewMaxPx, d.JPEGQuality); err != nil {
			return EncodeFailure{Path: ppath, Preset: j.n, Err: err}
		}
	}

	return nil
}

// logLuminanceHistogram prints a coarse log2-luminance distribution for a
// decoded source, handy for eyeballing how much dynamic range a capture
// actually has before deciding the presets are doing anything.
func (d *Driver)logLuminanceHistogram(path string, img *limg.LinearImage) {
	h := histogram.Histogram{NumBuckets: 64, ValMin: 0, ValMax: 64}

	b := img.Bounds()
	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, bb := img.RGBAt(x, y)
			lum := limg.LumaR*r + limg.LumaG*g + limg.LumaB*bb
			if lum < limg.Epsilon {
				lum = limg.Epsilon
			}
			h.Add(histogram.ScalarVal(int(math.Log2(lum)) + 32)) // bucket 32 = 1.0
		}
	}

	log.Printf("%s log2(luminance): %v", filepath.Base(path), h)
}
