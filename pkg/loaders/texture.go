package loaders

import (
	"image"
	_ "image/jpeg" // JPEG decoder, registered with image.Decode
	_ "image/png"  // PNG decoder, registered with image.Decode
	"os"

	"github.com/dusk-path/pathtracer/pkg/core"
	"github.com/dusk-path/pathtracer/pkg/scene"
	"github.com/pkg/errors"

	_ "github.com/ftrvxmtrx/tga"  // TGA decoder, registered with image.Decode
	_ "golang.org/x/image/bmp"   // BMP decoder, registered with image.Decode
	_ "golang.org/x/image/tiff"  // TIFF decoder, registered with image.Decode
	_ "golang.org/x/image/webp"  // WebP decoder, registered with image.Decode
)

// LoadTexture decodes an image file of any registered format (PNG, JPEG,
// BMP, TIFF, WebP, TGA) and reverse-gamma-corrects it from sRGB to linear,
// since texture files are treated as sRGB-encoded throughout the renderer.
func LoadTexture(path string) (*scene.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open texture %s", path)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode texture %s", path)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			srgb := core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			pixels[y*width+x] = srgb.SRGBToLinear()
		}
	}

	return &scene.Texture{Width: width, Height: height, Pixels: pixels}, nil
}

// LoadEnvironment decodes an equirectangular environment map the same way
// as LoadTexture, treating it as HDR-in-sRGB per spec §4.7.
func LoadEnvironment(path string) (*scene.Environment, error) {
	tex, err := LoadTexture(path)
	if err != nil {
		return nil, err
	}
	return &scene.Environment{Width: tex.Width, Height: tex.Height, Pixels: tex.Pixels}, nil
}
