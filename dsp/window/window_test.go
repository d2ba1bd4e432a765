package window

import (
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeBlackman, TypeFlatTop} {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 65)
			if len(w) != 65 {
				t.Fatalf("len = %d, want 65", len(w))
			}

			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
				if mirror := w[len(w)-1-i]; math.Abs(v-mirror) > 1e-12 {
					t.Fatalf("w[%d] = %v, mirror = %v, want symmetric", i, v, mirror)
				}
			}

			if peak := w[32]; math.Abs(peak-1) > 1e-6 {
				t.Fatalf("centre = %v, want 1", peak)
			}
		})
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("Generate(1) = %v, want [0]", w)
	}
	if w := Generate(Type(99), 3); w[1] != 1 {
		t.Fatalf("unknown type = %v, want rectangular", w)
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	sym := Generate(TypeHann, 8)
	per := Generate(TypeHann, 8, WithPeriodic())
	if sym[7] != 0 {
		t.Fatalf("symmetric last = %v, want 0", sym[7])
	}
	if per[7] == 0 {
		t.Fatal("periodic window should not close on the last sample")
	}
}

func TestENBW(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeBlackman, TypeFlatTop} {
		w := Generate(typ, 4096, WithPeriodic())
		var sum, sumSq float64
		for _, v := range w {
			sum += v
			sumSq += v * v
		}
		enbw := float64(len(w)) * sumSq / (sum * sum)
		if want := Info(typ).ENBW; math.Abs(enbw-want) > 1e-3 {
			t.Fatalf("%s ENBW = %v, want %v", typ, enbw, want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		want    Type
		wantErr bool
	}{
		{name: "hann", want: TypeHann},
		{name: " FlatTop ", want: TypeFlatTop},
		{name: "BLACKMAN", want: TypeBlackman},
		{name: "rect", want: TypeRectangular},
		{name: "rectangular", want: TypeRectangular},
		{name: "kaiser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v", tt.name, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseType(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeHann.String(); got != "Hann" {
		t.Fatalf("String() = %q", got)
	}
	if got := Type(42).String(); got != "Type(42)" {
		t.Fatalf("String() = %q", got)
	}
}
