package transform

// ApplyBitslice transposes data at bit granularity: with n = len(data),
// output bit position k (bit k%8 of byte k/8) takes bit k/n of input byte
// k%n. All bit-position-0 bits of the input therefore land first, then all
// bit-position-1 bits, and so on.
func ApplyBitslice(data []byte) []byte {
	n := len(data)
	out := make([]byte, n)
	for o := 0; o < n; o++ {
		var v byte
		for b := 0; b < 8; b++ {
			k := 8*o + b
			bit := (data[k%n] >> (k / n)) & 1
			v |= bit << b
		}
		out[o] = v
	}
	return out
}

// ReverseBitslice inverts ApplyBitslice.
func ReverseBitslice(sliced []byte) []byte {
	n := len(sliced)
	out := make([]byte, n)
	for o := 0; o < n; o++ {
		for b := 0; b < 8; b++ {
			k := 8*o + b
			bit := (sliced[o] >> b) & 1
			out[k%n] |= bit << (k / n)
		}
	}
	return out
}
