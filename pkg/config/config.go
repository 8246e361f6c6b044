package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SphereType names the material kind an inline config sphere maps onto. It
// mirrors the OBJ loader's illum mapping but is spelled out for config
// authors rather than inferred from a numeric code.
type SphereType string

const (
	SphereDiffuse      SphereType = "DIFFUSE"
	SphereSpecular     SphereType = "SPECULAR"
	SphereTransmissive SphereType = "TRANSMISSIVE"
)

// Vec3 is a plain (de)serializable 3-tuple, kept separate from core.Vec3 so
// this package has no dependency on the renderer's math types.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Sphere describes one inline analytic sphere in the scene.
type Sphere struct {
	Center    Vec3       `json:"center" yaml:"center"`
	Radius    float64    `json:"radius" yaml:"radius"`
	Albedo    Vec3       `json:"albedo" yaml:"albedo"`
	Emissive  Vec3       `json:"emissive" yaml:"emissive"`
	Texture   string     `json:"texture" yaml:"texture"`
	Metallic  float64    `json:"metallic" yaml:"metallic"`
	Roughness float64    `json:"roughness" yaml:"roughness"`
	Type      SphereType `json:"type" yaml:"type"`
}

// Config is the on-disk scene and render setup description. JSON is the
// mandatory format; Load also accepts a YAML sibling file sharing the
// same base name when one exists (see Load).
type Config struct {
	ImageWidth          int        `json:"image_width" yaml:"image_width"`
	ImageHeight         int        `json:"image_height" yaml:"image_height"`
	CameraPosition      Vec3       `json:"camera_position" yaml:"camera_position"`
	CameraTarget        Vec3       `json:"camera_target" yaml:"camera_target"`
	CameraFOV           float64    `json:"camera_fov" yaml:"camera_fov"`
	CameraAperture      float64    `json:"camera_aperture" yaml:"camera_aperture"`
	CameraFocusDistance float64    `json:"camera_focus_distance" yaml:"camera_focus_distance"`
	Models              []string   `json:"models" yaml:"models"`
	Spheres             []Sphere   `json:"spheres" yaml:"spheres"`
	EnvironmentTexture  string     `json:"environment_texture" yaml:"environment_texture"`
	PrintProgress       bool       `json:"print_progress" yaml:"print_progress"`

	SamplesPerPixel int `json:"samples_per_pixel" yaml:"samples_per_pixel"`
	MaxBounce       int `json:"max_bounce" yaml:"max_bounce"`
	BatchSize       int `json:"batch_size" yaml:"batch_size"`
}

// Defaults applied to any field left at its zero value, per the
// configuration's documented fallback behavior.
const (
	DefaultCameraAperture      = 0.0
	DefaultCameraFocusDistance = 0.0
	DefaultSamplesPerPixel     = 64
	DefaultMaxBounce           = 8
	DefaultBatchSize           = 4
)

// applyDefaults fills in zero-valued optional fields.
func (c *Config) applyDefaults() {
	if c.SamplesPerPixel == 0 {
		c.SamplesPerPixel = DefaultSamplesPerPixel
	}
	if c.MaxBounce == 0 {
		c.MaxBounce = DefaultMaxBounce
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Load reads and parses a JSON config file at path, applying defaults for
// unspecified optional keys. If a sibling file with the same base name and
// a .yaml or .yml extension exists, its contents are merged on top of the
// JSON (YAML values win), letting deployments override a checked-in base
// config without editing it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	if yamlPath, ok := siblingYAML(path); ok {
		yamlData, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, errors.Wrapf(err, "open yaml override %s", yamlPath)
		}
		if err := yaml.Unmarshal(yamlData, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse yaml override %s", yamlPath)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// siblingYAML reports whether a .yaml or .yml file exists next to the given
// JSON config path, sharing its base name.
func siblingYAML(jsonPath string) (string, bool) {
	base := strings.TrimSuffix(jsonPath, ".json")
	for _, ext := range []string{".yaml", ".yml"} {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// ApplyOverrides applies the CLI's optional positional integrator
// arguments, which take precedence over whatever the config file specifies.
func (c *Config) ApplyOverrides(samples, bounces, batchSize int) {
	if samples > 0 {
		c.SamplesPerPixel = samples
	}
	if bounces > 0 {
		c.MaxBounce = bounces
	}
	if batchSize > 0 {
		c.BatchSize = batchSize
	}
}
