package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureLen32 is EnsureLen for device-format float32 buffers.
func EnsureLen32(buf []float32, n int) []float32 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float32, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Downmix averages interleaved frames of src into the mono dst and returns
// the number of frames written.
func Downmix(dst []float64, src []float32, channels int) int {
	if channels <= 0 {
		return 0
	}
	frames := len(src) / channels
	if frames > len(dst) {
		frames = len(dst)
	}
	if channels == 1 {
		for i := 0; i < frames; i++ {
			dst[i] = float64(src[i])
		}
		return frames
	}
	inv := 1 / float64(channels)
	for i := 0; i < frames; i++ {
		var sum float64
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += float64(src[base+ch])
		}
		dst[i] = sum * inv
	}
	return frames
}

// FanOut writes each mono sample of src to every channel of the interleaved
// dst and returns the number of frames written.
func FanOut(dst []float32, src []float64, channels int) int {
	if channels <= 0 {
		return 0
	}
	frames := len(dst) / channels
	if frames > len(src) {
		frames = len(src)
	}
	for i := 0; i < frames; i++ {
		v := float32(src[i])
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			dst[base+ch] = v
		}
	}
	return frames
}
