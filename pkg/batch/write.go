package batch

import(
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// writeAtomic encodes into a temp file in the destination directory and
// renames it into place, so an aborted pair never leaves a partial file
// at a final path. Overwrites any previous output at the same path.
func writeAtomic(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}

	tmp, err := ioutil.TempFile(dir, ".tonebatch-*")
	if err != nil {
		return errors.Wrapf(err, "tempfile in %s", dir)
	}

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "encode %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}

// WritePNG writes the full-resolution output.
func WritePNG(img image.Image, path string) error {
	return writeAtomic(path, func(w io.Writer) error { return png.Encode(w, img) })
}

// WriteJPEGPreview writes a reduced copy whose longest side is at most
// maxPx, for quick side-by-side review.
func WriteJPEGPreview(img image.Image, path string, maxPx, quality int) error {
	small := resize.Thumbnail(uint(maxPx), uint(maxPx), img, resize.Lanczos3)
	return writeAtomic(path, func(w io.Writer) error {
		return jpeg.Encode(w, small, &jpeg.Options{Quality: quality})
	})
}
