package renderer

import (
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/pkg/errors"
)

// WritePreviewWebP writes the current render state as a WebP image to path,
// used for the interim progress snapshot written after every batch.
func (r *Renderer) WritePreviewWebP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create preview file %s", path)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, r.ToImage(), nil); err != nil {
		return errors.Wrap(err, "encode webp preview")
	}
	return nil
}
