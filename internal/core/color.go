package core

import "unicode/utf16"

const hexDigits = "0123456789ABCDEF"

// ColorForSeed derives a grey-ish display color from seed. The same seed
// always yields the same color; it is not meant to be random.
//
// The UTF-16 code units of seed are summed into acc and two hex digits are
// taken from acc mod 16 and (acc*len + acc) mod 16. The pair is repeated for
// each RGB channel, giving "#ABABAB".
func ColorForSeed(seed string) string {
	units := utf16.Encode([]rune(seed))
	acc := 0
	for _, u := range units {
		acc += int(u)
	}
	pair := []byte{hexDigits[acc%16], hexDigits[(acc*len(units)+acc)%16]}

	out := make([]byte, 0, 7)
	out = append(out, '#')
	for i := 0; i < 3; i++ {
		out = append(out, pair...)
	}
	return string(out)
}
