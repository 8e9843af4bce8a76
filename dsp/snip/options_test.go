package snip

import (
	"errors"
	"testing"
)

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "fwhm ok", opt: WithFWHM(1)},
		{name: "fwhm zero", opt: WithFWHM(0), wantErr: true},
		{name: "reductions zero", opt: WithReductions(0)},
		{name: "reductions negative", opt: WithReductions(-1), wantErr: true},
		{name: "iterations zero", opt: WithIterations(0)},
		{name: "iterations negative", opt: WithIterations(-5), wantErr: true},
		{name: "region", opt: WithRegion(-10, 5000)},
		{name: "region single", opt: WithRegion(3, 3)},
		{name: "region inverted", opt: WithRegion(9, 3), wantErr: true},
		{name: "hook nil", opt: WithIterationHook(nil)},
		{name: "nil option", opt: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []Variant{VariantReference, VariantFastConvolution} {
				_, err := New(v, tt.opt)
				if (err != nil) != tt.wantErr {
					t.Fatalf("%v: New() error = %v, wantErr %v", v, err, tt.wantErr)
				}
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.fwhm != 8 || cfg.reductions != 10 || cfg.iterations != 100 || cfg.region {
		t.Fatalf("defaultConfig() = %+v", cfg)
	}
}

func TestBounds(t *testing.T) {
	cfg, err := applyOptions([]Option{WithRegion(-4, 500)})
	if err != nil {
		t.Fatal(err)
	}
	if first, last := cfg.bounds(100); first != 0 || last != 99 {
		t.Fatalf("bounds = [%d, %d], want [0, 99]", first, last)
	}

	cfg, err = applyOptions([]Option{WithRegion(150, 200)})
	if err != nil {
		t.Fatal(err)
	}
	if first, last := cfg.bounds(100); first <= last {
		t.Fatalf("bounds = [%d, %d], want empty", first, last)
	}

	if first, last := defaultConfig().bounds(7); first != 0 || last != 6 {
		t.Fatalf("default bounds = [%d, %d], want [0, 6]", first, last)
	}
}

func TestFastCoercesEvenFWHM(t *testing.T) {
	f, err := NewFastConvolution(WithFWHM(12))
	if err != nil {
		t.Fatal(err)
	}
	if f.cfg.fwhm != 13 {
		t.Fatalf("fwhm = %d, want 13", f.cfg.fwhm)
	}
}

func TestVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{in: "reference", want: VariantReference},
		{in: "FAST", want: VariantFastConvolution},
		{in: "snipfast", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseVariant(%q) error = %v", tt.in, err)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseVariant(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if s := Variant(9).String(); s != "Variant(9)" {
		t.Fatalf("String() = %q", s)
	}
	if VariantFastConvolution.String() != "fast" {
		t.Fatalf("String() = %q, want fast", VariantFastConvolution.String())
	}
	if _, err := New(Variant(9)); err == nil {
		t.Fatal("New(invalid) succeeded")
	}
}

func TestHalfWindows(t *testing.T) {
	tests := []struct {
		name                         string
		fwhm, reductions, iterations int
		want                         []int
	}{
		{name: "no reduction", fwhm: 8, reductions: 0, iterations: 3, want: []int{8, 8, 8}},
		{name: "tail", fwhm: 8, reductions: 3, iterations: 5, want: []int{8, 8, 5, 3, 2}},
		{name: "floor at one", fwhm: 2, reductions: 4, iterations: 4, want: []int{1, 1, 1, 1}},
		{name: "more reductions than iterations", fwhm: 13, reductions: 10, iterations: 2, want: []int{9, 6}},
		{name: "none", fwhm: 8, reductions: 3, iterations: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HalfWindows(tt.fwhm, tt.reductions, tt.iterations)
			if len(got) != len(tt.want) {
				t.Fatalf("HalfWindows() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("HalfWindows() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, v := range []Variant{VariantReference, VariantFastConvolution} {
		e, err := New(v)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := e.Estimate(nil); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("%v: error = %v, want ErrEmptyInput", v, err)
		}
	}
}
