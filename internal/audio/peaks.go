package audio

// DefaultPeakBars is the waveform overview resolution the editor uses.
const DefaultPeakBars = 200

// Peaks reduces the buffer to n bars, each the maximum absolute
// amplitude across all channels within its chunk, normalized so the
// loudest bar is 1.0. A silent buffer yields all-zero bars. The chunk
// width is the floor of total/n; any remainder past the last chunk is
// ignored, which at overview resolution is invisible.
func Peaks(buf *SampleBuffer, n int) []float64 {
	if n <= 0 {
		return nil
	}
	bars := make([]float64, n)
	total := buf.TotalSamples()
	if total == 0 {
		return bars
	}

	chunk := total / n
	if chunk < 1 {
		chunk = 1
	}

	var peak float64
	for i := range bars {
		start := i * chunk
		if start >= total {
			break
		}
		end := start + chunk
		if end > total {
			end = total
		}
		var m float64
		for _, s := range buf.Slice(start, end) {
			if s < 0 {
				s = -s
			}
			if s > m {
				m = s
			}
		}
		bars[i] = m
		if m > peak {
			peak = m
		}
	}

	if peak > 0 {
		for i := range bars {
			bars[i] /= peak
		}
	}
	return bars
}
