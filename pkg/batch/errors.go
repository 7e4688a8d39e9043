package batch

import "fmt"

// A DecodeFailure means one source file could not be turned into a
// LinearImage. The file is skipped and logged; the batch carries on.
type DecodeFailure struct {
	Path string
	Err  error
}

func (e DecodeFailure)Error() string { return fmt.Sprintf("decode %s: %v", e.Path, e.Err) }
func (e DecodeFailure)Unwrap() error { return e.Err }

// An EncodeFailure means one (file, preset) output could not be written,
// e.g. disk full. The pair is counted as failed; the batch carries on.
type EncodeFailure struct {
	Path   string
	Preset int // 1-based preset number
	Err    error
}

func (e EncodeFailure)Error() string {
	return fmt.Sprintf("encode %s (preset %d): %v", e.Path, e.Preset, e.Err)
}
func (e EncodeFailure)Unwrap() error { return e.Err }
