package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionsDefault(t *testing.T) {
	assert.Equal(t, Extensions(DefaultMISA), "I")
}

func TestExtensionsKnown(t *testing.T) {
	assert.Equal(t, Extensions(0), "")
	assert.Equal(t, Extensions(1), "A")
	assert.Equal(t, Extensions(1<<8|1<<12), "IM")
	assert.Equal(t, Extensions(1<<0|1<<2|1<<3|1<<5|1<<8), "ACDFI")
	assert.Equal(t, Extensions(1<<15|1<<0), "AP")
	// bits outside the recognized nine are ignored
	assert.Equal(t, Extensions(1<<8|1<<9|1<<30), "I")
}

// Every subset of the nine recognized bits must come back as the matching
// letter subset, in canonical order.
func TestExtensionsExhaustive(t *testing.T) {
	for combo := uint32(0); combo < 1<<9; combo++ {
		var misa uint32
		var want []byte
		for i, m := range misaBits {
			if combo&(1<<i) != 0 {
				misa |= 1 << m.bit
				want = append(want, m.letter)
			}
		}
		assert.Equal(t, Extensions(misa), string(want), "combo=%09b", combo)
	}
}
