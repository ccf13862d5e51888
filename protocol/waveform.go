package protocol

import (
	"fmt"
	"strconv"
)

// Arbitrary waveform encoding. A waveform slot holds a fixed number of
// 14-bit samples; the upload payload packs each sample as two bytes, low
// eight bits first, then the high six bits.

// BuildWaveformLoadCmd starts an upload into the given arbitrary waveform
// slot. The instrument answers WaveformLoadAck when it is ready for the
// sample payload.
func BuildWaveformLoadCmd(slot int) (Command, error) {
	if slot < 1 {
		return Command{}, &EncodingError{Op: "waveform_slot", Value: strconv.Itoa(slot), Reason: "slot must be >= 1"}
	}
	return Command{
		Op:      "waveform_load",
		Channel: NoChannel,
		Text:    fmt.Sprintf("DDS_WAVE%d", slot),
	}, nil
}

// ConvertSamples linearly maps floating-point samples from
// [minValue, maxValue] onto the raw range [0, MaxRawSample), clamping
// values that fall outside.
func ConvertSamples(values []float64, minValue, maxValue float64) ([]int, error) {
	if maxValue <= minValue {
		return nil, &ValidationError{
			Reason: fmt.Sprintf("max_value %g must be greater than min_value %g", maxValue, minValue),
		}
	}

	raw := make([]int, len(values))
	scale := float64(MaxRawSample) / (maxValue - minValue)
	for i, v := range values {
		r := int((v - minValue) * scale)
		if r < 0 {
			r = 0
		}
		if r >= MaxRawSample {
			r = MaxRawSample - 1
		}
		raw[i] = r
	}
	return raw, nil
}

// SampleFromRaw is the inverse of ConvertSamples for a single sample,
// reproducing the original value to within one raw quantization step.
func SampleFromRaw(raw int, minValue, maxValue float64) float64 {
	return minValue + float64(raw)*(maxValue-minValue)/float64(MaxRawSample)
}

// EncodeWaveformData packs raw samples into the upload wire format.
// Samples outside [0, MaxRawSample) fail with a ValidationError.
func EncodeWaveformData(raw []int) ([]byte, error) {
	data := make([]byte, 0, len(raw)*BytesPerSample)
	for i, v := range raw {
		if v < 0 || v >= MaxRawSample {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("sample %d value %d outside raw range [0, %d)", i, v, MaxRawSample),
			}
		}
		data = append(data, byte(v&0xFF), byte((v>>8)&0x3F))
	}
	return data, nil
}

// ChunkWaveformData splits an encoded payload into per-write chunks of at
// most chunkSize bytes. Chunk sizes are rounded down to a multiple of
// BytesPerSample so a boundary never splits a sample.
func ChunkWaveformData(data []byte, chunkSize int) [][]byte {
	if chunkSize < BytesPerSample {
		chunkSize = BytesPerSample
	}
	chunkSize -= chunkSize % BytesPerSample

	var chunks [][]byte
	for len(data) > chunkSize {
		chunks = append(chunks, data[:chunkSize])
		data = data[chunkSize:]
	}
	if len(data) > 0 {
		chunks = append(chunks, data)
	}
	return chunks
}
