package renderer

import (
	"image"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/dusk-path/pathtracer/pkg/camera"
	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout via fmt.Printf
// semantics; callers normally pass log.New(os.Stdout, ...) or similar.
type DefaultLogger struct {
	Printer func(format string, args ...interface{})
}

// Printf satisfies core.Logger.
func (l DefaultLogger) Printf(format string, args ...interface{}) {
	if l.Printer != nil {
		l.Printer(format, args...)
	}
}

// Config controls a render: image dimensions, integrator knobs, and worker
// count.
type Config struct {
	Width, Height int
	Samples       int
	MaxBounce     int
	BatchSize     int
	NumWorkers    int // 0 = runtime.NumCPU()
}

// PixelAccumulator tracks the running-mean estimate for a single pixel
// across batches, per spec §4.7: mean <- lerp(mean, sample, 1/(n+1)).
type PixelAccumulator struct {
	Mean         core.Vec3
	TotalSamples int
}

// AddSample folds one more radiance sample into the running mean.
func (p *PixelAccumulator) AddSample(sample core.Vec3) {
	p.TotalSamples++
	p.Mean = p.Mean.Lerp(sample, 1.0/float64(p.TotalSamples))
}

// RenderStats summarizes a completed render, exposing the two global atomic
// counters the spec asks to be read only at render end.
type RenderStats struct {
	Width, Height     int
	TotalSamples      int
	IntersectionTests uint64
	RayBounces        uint64
	Elapsed           time.Duration
}

// Renderer owns the camera, tracer, and pixel buffer for one render. Worker
// goroutines share read-only access to Camera and Tracer; each writes only
// to its own rows of Pixels in any given batch, so no locking is needed on
// the pixel buffer itself.
type Renderer struct {
	Camera *camera.Camera
	Tracer *integrator.PathTracer
	Config Config
	Logger core.Logger

	Pixels [][]PixelAccumulator // [row][col]
}

// New builds a Renderer with a freshly zeroed pixel buffer.
func New(cam *camera.Camera, tracer *integrator.PathTracer, config Config, logger core.Logger) *Renderer {
	pixels := make([][]PixelAccumulator, config.Height)
	for y := range pixels {
		pixels[y] = make([]PixelAccumulator, config.Width)
	}
	return &Renderer{Camera: cam, Tracer: tracer, Config: config, Logger: logger, Pixels: pixels}
}

// RenderBatch runs one batch of `samplesInBatch` samples per pixel, adding
// each pixel's contribution into the running mean. Rows are distributed
// across a worker pool; within a row pixels are traced sequentially on that
// worker, matching the spec's "parallel over rows" concurrency model.
func (r *Renderer) RenderBatch(samplesInBatch int, seed int64) {
	numWorkers := r.Config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rows := make(chan int, r.Config.Height)
	for y := 0; y < r.Config.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		workerSeed := seed + int64(w)
		go func(workerSeed int64) {
			defer wg.Done()
			random := rand.New(rand.NewSource(workerSeed))
			for y := range rows {
				r.renderRow(y, samplesInBatch, random)
			}
		}(workerSeed)
	}
	wg.Wait()
}

func (r *Renderer) renderRow(y, samplesInBatch int, random *rand.Rand) {
	for x := 0; x < r.Config.Width; x++ {
		acc := &r.Pixels[y][x]
		for s := 0; s < samplesInBatch; s++ {
			ray := r.Camera.GetRay(x, y, random)
			sample := r.Tracer.Trace(ray, 0, false, random)
			acc.AddSample(sanitize(sample))
		}
	}
}

// sanitize replaces a non-finite sample with black; per spec, a degenerate
// sample must contribute zero radiance rather than corrupt the pixel buffer.
func sanitize(c core.Vec3) core.Vec3 {
	if !c.IsFinite() {
		return core.Vec3{}
	}
	return c
}

// Stats reports the current render statistics, reading the global atomic
// counters exactly once.
func (r *Renderer) Stats(elapsed time.Duration) RenderStats {
	total := 0
	if r.Config.Height > 0 && r.Config.Width > 0 {
		total = r.Pixels[0][0].TotalSamples
	}
	return RenderStats{
		Width:             r.Config.Width,
		Height:            r.Config.Height,
		TotalSamples:      total,
		IntersectionTests: core.IntersectionTestCount(),
		RayBounces:        core.BounceCount(),
		Elapsed:           elapsed,
	}
}

// ToImage tone-maps and quantizes the current running means into an RGBA
// image, per spec §4.7: ACES filmic, then gamma 2.2, then 8-bit quantize
// with clamping.
func (r *Renderer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Config.Width, r.Config.Height))
	for y := 0; y < r.Config.Height; y++ {
		for x := 0; x < r.Config.Width; x++ {
			red, green, blue := r.Pixels[y][x].Mean.ToRGB8()
			offset := img.PixOffset(x, y)
			img.Pix[offset] = red
			img.Pix[offset+1] = green
			img.Pix[offset+2] = blue
			img.Pix[offset+3] = 255
		}
	}
	return img
}
