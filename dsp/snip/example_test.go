package snip_test

import (
	"fmt"

	"github.com/cwbudde/algo-xrf/dsp/snip"
	"github.com/cwbudde/algo-xrf/internal/testutil"
)

func ExampleNew() {
	counts := testutil.Spike(200, 10, 100, 1000)

	est, err := snip.New(snip.VariantFastConvolution, snip.WithFWHM(7), snip.WithRegion(50, 149))
	if err != nil {
		panic(err)
	}
	bg, err := est.Estimate(counts)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.1f\n", bg[100])
	// Output: 10.0
}

func ExampleHalfWindows() {
	fmt.Println(snip.HalfWindows(8, 3, 5))
	// Output: [8 8 5 3 2]
}
