package game

import (
	"fmt"
	"math/rand"
)

// RandomColors returns a ColorSource drawing #rrggbb values from rng.
func RandomColors(rng *rand.Rand) ColorSource {
	return func() string {
		return fmt.Sprintf("#%06x", rng.Intn(0x1000000))
	}
}
