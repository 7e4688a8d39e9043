package batch

import(
	"bytes"
	"image"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"

	// Extend image.Decode: radiance .hdr files, and the HDR TIFF flavors
	// (LogLuv, 32-bit float) that x/image/tiff rejects.
	_ "github.com/mdouchement/hdr/codec/rgbe"
	_ "github.com/mdouchement/tiff"

	"github.com/hdrstudy/tonebatch/pkg/limg"
)

// EnumerateSources lists the processable files in a directory, sorted by
// name so batch runs are deterministic. An empty result is not an error.
func EnumerateSources(dir string) ([]string, error) {
	contents, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "readdir %s", dir)
	}

	files := []string{}
	for _, item := range contents {
		if item.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(item.Name())) {
		case ".tif", ".tiff", ".hdr":
			files = append(files, filepath.Join(dir, item.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// DecodeSource reads one source file into a LinearImage. The raw sensor
// decode happened upstream; by the time a file lands in the input
// directory it is linear RGB in a standard container. All failures come
// back as a DecodeFailure so the driver can skip-and-continue.
func DecodeSource(path string) (*limg.LinearImage, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, DecodeFailure{Path: path, Err: err}
	}

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		img, err = tiff.Decode(bytes.NewReader(raw))
		if err != nil {
			// Maybe an HDR TIFF flavor; the registered decoders get a shot.
			img, _, err = image.Decode(bytes.NewReader(raw))
		}
	default:
		img, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, DecodeFailure{Path: path, Err: err}
	}

	li, err := limg.FromImage(img)
	if err != nil {
		return nil, DecodeFailure{Path: path, Err: err}
	}
	return li, nil
}
