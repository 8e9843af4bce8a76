package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-xrf/dsp/core"
)

func ExampleOddWidth() {
	fmt.Println(core.OddWidth(8), core.OddWidth(13))

	// Output:
	// 9 13
}

func ExampleSqrtNonNegative() {
	counts := []float64{-2, 0, 9, 16}
	core.SqrtNonNegative(counts, counts)
	fmt.Println(counts)

	core.SquareInPlace(counts)
	fmt.Println(counts)

	// Output:
	// [0 0 3 4]
	// [0 0 9 16]
}
