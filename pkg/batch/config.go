package batch

import(
	"io/ioutil"
	"log"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Verbosity    int

	InputDir     string
	OutputDir    string

	Workers      int    // 0 means one per CPU
	DumpGrids    bool   // write intermediate grid images next to the outputs

	PreviewMaxPx int    // if >0, also write a JPEG preview no larger than this on its longest side
	JPEGQuality  int
}

func NewConfig() Config {
	return Config{
		OutputDir:   "processed_images",
		JPEGQuality: 70,
	}
}

func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func LoadConfig(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config read %s", filename)
	}
	return NewConfigFromYaml(contents)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// NumWorkers resolves the worker count for the pool.
func (c Config)NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
