package diarization

// Window is a half-open frame range [Start, End).
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End - Start.
func (w Window) Len() int { return w.End - w.Start }

// countWindows returns the number of full windows; trailing frames that do
// not fill a window are dropped. A recording shorter than size-step frames
// has none.
func countWindows(frameLength, size, step int) int {
	return max(int(float64(frameLength-size+step)/float64(step)), 0)
}

// Plan enumerates chunk windows over a recording of frameLength frames.
//
// Full windows are [i*step, i*step+chunkSize). With includeFinalPartial, one
// more window covering the remainder up to frameLength is emitted, but only
// when the remainder is longer than subsampling*labelDelay frames.
func Plan(frameLength, chunkSize, step int, includeFinalPartial bool, labelDelay, subsampling int) []Window {
	if frameLength <= 0 || chunkSize <= 0 || step <= 0 {
		return nil
	}
	n := countWindows(frameLength, chunkSize, step)
	windows := make([]Window, 0, n+1)
	i := -1
	for k := range n {
		windows = append(windows, Window{Start: k * step, End: k*step + chunkSize})
		i = k
	}
	if includeFinalPartial && i*step+chunkSize < frameLength {
		if frameLength-(i+1)*step-subsampling*labelDelay > 0 {
			windows = append(windows, Window{Start: (i + 1) * step, End: frameLength})
		}
	}
	return windows
}

// FrameLength converts a duration to a frame count at the subsampled
// label resolution.
func FrameLength(duration float64, sampleRate, frameShift, subsampling int) int {
	if frameShift <= 0 || subsampling <= 0 {
		return 0
	}
	frames := int(duration * float64(sampleRate) / float64(frameShift))
	return frames / subsampling
}
