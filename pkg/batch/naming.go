package batch

import(
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hdrstudy/tonebatch/pkg/tonemap"
)

// OutputName composes the destination filename for one (source, preset)
// pair. The downstream rating app parses these names, so the format is a
// contract: <stem>_preset<N>_sg<gamma>_st<stops>.png with both parameters
// rendered at two fixed decimals. n is the 1-based preset table position.
func OutputName(srcPath string, n int, params tonemap.ToneParameters) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_preset%d_sg%.2f_st%.2f.png", stem, n, params.ShadowGamma, params.Stops)
}

// PreviewName is the JPEG preview twin of an output name.
func PreviewName(outputName string) string {
	return strings.TrimSuffix(outputName, filepath.Ext(outputName)) + ".jpg"
}
