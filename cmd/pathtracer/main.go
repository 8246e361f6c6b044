package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dusk-path/pathtracer/pkg/camera"
	"github.com/dusk-path/pathtracer/pkg/config"
	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/geometry"
	"github.com/dusk-path/pathtracer/pkg/integrator"
	"github.com/dusk-path/pathtracer/pkg/loaders"
	"github.com/dusk-path/pathtracer/pkg/material"
	"github.com/dusk-path/pathtracer/pkg/renderer"
	"github.com/dusk-path/pathtracer/pkg/scene"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: pathtracer <config.json> <output_image_path> [samples] [bounces] [batch_size]")
		os.Exit(1)
	}
	configPath := os.Args[1]
	outputPath := os.Args[2]
	samples := positionalInt(os.Args, 3)
	bounces := positionalInt(os.Args, 4)
	batchSize := positionalInt(os.Args, 5)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyOverrides(samples, bounces, batchSize)

	sceneObj, cam, err := buildScene(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
	if len(sceneObj.Primitives) == 0 {
		fmt.Fprintln(os.Stderr, "setup failed: scene is empty after setup")
		os.Exit(1)
	}
	sceneObj.ComputeBVH()

	logger := renderer.DefaultLogger{Printer: func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}}

	tracer := &integrator.PathTracer{Scene: sceneObj, MaxDepth: cfg.MaxBounce}
	r := renderer.New(cam, tracer, renderer.Config{
		Width:      cfg.ImageWidth,
		Height:     cfg.ImageHeight,
		Samples:    cfg.SamplesPerPixel,
		MaxBounce:  cfg.MaxBounce,
		BatchSize:  cfg.BatchSize,
	}, logger)

	progress := openProgressReporter(cfg.PrintProgress)
	defer progress.Close()

	outputDir := filepath.Dir(outputPath)
	previewPath := filepath.Join(outputDir, "latest.png")
	webpPreviewPath := filepath.Join(outputDir, "latest.webp")

	totalBatches := (cfg.SamplesPerPixel + cfg.BatchSize - 1) / cfg.BatchSize
	start := time.Now()

	for batch := 1; batch <= totalBatches; batch++ {
		samplesThisBatch := cfg.BatchSize
		if remaining := cfg.SamplesPerPixel - (batch-1)*cfg.BatchSize; remaining < samplesThisBatch {
			samplesThisBatch = remaining
		}
		r.RenderBatch(samplesThisBatch, int64(batch))

		if err := writePNG(r, previewPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed writing interim preview: %v\n", err)
		}
		if err := r.WritePreviewWebP(webpPreviewPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed writing webp preview: %v\n", err)
		}
		progress.Report(batch, totalBatches, time.Since(start).Seconds())
	}

	if err := writePNG(r, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed writing final image: %v\n", err)
		os.Exit(1)
	}

	stats := r.Stats(time.Since(start))
	fmt.Printf("rendered %dx%d at %d spp in %v (%d intersection tests, %d bounces)\n",
		stats.Width, stats.Height, stats.TotalSamples, stats.Elapsed, stats.IntersectionTests, stats.RayBounces)
}

func positionalInt(args []string, index int) int {
	if index >= len(args) {
		return 0
	}
	n, err := strconv.Atoi(args[index])
	if err != nil {
		return 0
	}
	return n
}

func openProgressReporter(requested bool) progressReporter {
	if !requested {
		return plainProgress{}
	}
	if t, err := newTcellProgress(); err == nil {
		return t
	}
	return plainProgress{}
}

func writePNG(r *renderer.Renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, r.ToImage())
}

func toVec3(v config.Vec3) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}

// buildScene assembles a scene.Scene and camera.Camera from a config.Config:
// OBJ models are loaded first, then inline spheres are added, then the
// optional environment map.
func buildScene(cfg *config.Config) (*scene.Scene, *camera.Camera, error) {
	s := scene.New()

	for _, modelPath := range cfg.Models {
		if err := loaders.LoadOBJ(s, modelPath); err != nil {
			return nil, nil, err
		}
	}

	for _, sph := range cfg.Spheres {
		kind := sphereMaterialKind(sph.Type)
		mat := material.Material{
			Kind:      kind,
			Albedo:    toVec3(sph.Albedo),
			Emission:  toVec3(sph.Emissive),
			IOR:       sphereIOR(kind),
			Metallic:  sph.Metallic,
			Roughness: sph.Roughness,
			Texture:   material.NoTexture,
		}
		if sph.Texture != "" {
			tex, err := loaders.LoadTexture(sph.Texture)
			if err != nil {
				return nil, nil, err
			}
			mat.Texture = s.AddTexture(tex)
		}
		materialIndex := s.AddMaterial(mat)
		s.AddPrimitive(geometry.NewSpherePrimitive(toVec3(sph.Center), sph.Radius, materialIndex, 0))
	}

	if cfg.EnvironmentTexture != "" {
		env, err := loaders.LoadEnvironment(cfg.EnvironmentTexture)
		if err != nil {
			return nil, nil, err
		}
		s.Environment = env
	}

	cam := camera.New(toVec3(cfg.CameraPosition), toVec3(cfg.CameraTarget), cfg.ImageWidth, cfg.ImageHeight,
		cfg.CameraFOV, cfg.CameraAperture, cfg.CameraFocusDistance)

	return s, cam, nil
}

func sphereMaterialKind(t config.SphereType) material.Kind {
	switch t {
	case config.SphereSpecular:
		return material.Specular
	case config.SphereTransmissive:
		return material.Dielectric
	default:
		return material.Diffuse
	}
}

// defaultGlassIOR is the index of refraction given to inline config spheres
// of type TRANSMISSIVE, whose schema (spec.md §6) has no IOR key of its
// own. 1.5 matches common glass.
const defaultGlassIOR = 1.5

// sphereIOR returns the index of refraction for a material.Kind produced
// from an inline config sphere; only DIELECTRIC needs one.
func sphereIOR(kind material.Kind) float64 {
	if kind == material.Dielectric {
		return defaultGlassIOR
	}
	return 0
}
