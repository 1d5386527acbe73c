package cpu

import "risculator/mask"

// misaBits maps extension letters to their misa bit positions, in the
// canonical output order. Only the letters this emulator can name are
// listed; the privileged spec defines the rest.
var misaBits = []struct {
	letter byte
	bit    uint
}{
	{'A', 0}, {'B', 1}, {'C', 2}, {'D', 3}, {'E', 4}, {'F', 5},
	{'I', 8}, {'M', 12}, {'P', 15},
}

// Extensions decodes a misa value into its extension letter string, in
// canonical order. The default misa has only bit 8 set: "I".
func Extensions(misa uint32) string {
	var out []byte
	for _, m := range misaBits {
		if mask.IsSet(misa, m.bit) {
			out = append(out, m.letter)
		}
	}
	return string(out)
}
