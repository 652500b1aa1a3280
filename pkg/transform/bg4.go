package transform

// ApplyByteGrouping rearranges data into four concatenated groups: group g
// holds the bytes at input indices 4·i+g over the aligned region, and each
// of the first len(data)%4 groups additionally takes one remainder byte.
// The output length equals the input length.
func ApplyByteGrouping(data []byte) []byte {
	split := len(data) / 4
	rem := len(data) % 4

	out := make([]byte, len(data))
	o := 0
	for g := 0; g < 4; g++ {
		for i := 0; i < split; i++ {
			out[o] = data[4*i+g]
			o++
		}
		if g < rem {
			out[o] = data[4*split+g]
			o++
		}
	}
	return out
}

// ReverseByteGrouping inverts ApplyByteGrouping.
func ReverseByteGrouping(grouped []byte) []byte {
	split := len(grouped) / 4
	rem := len(grouped) % 4

	out := make([]byte, len(grouped))
	o := 0
	for g := 0; g < 4; g++ {
		for i := 0; i < split; i++ {
			out[4*i+g] = grouped[o]
			o++
		}
		if g < rem {
			out[4*split+g] = grouped[o]
			o++
		}
	}
	return out
}
