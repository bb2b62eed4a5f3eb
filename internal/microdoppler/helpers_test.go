package microdoppler

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

func cdenseFrom(rows, cols int, f func(r, c int) complex128) *mat.CDense {
	m := mat.NewCDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, f(r, c))
		}
	}
	return m
}

func randomCDense(seed int64, rows, cols int) *mat.CDense {
	rng := rand.New(rand.NewSource(seed))
	return cdenseFrom(rows, cols, func(int, int) complex128 {
		return complex(rng.NormFloat64(), rng.NormFloat64())
	})
}

func testParams(cfg Config, pulses int) Parameters {
	p, err := DeriveParameters(cfg, pulses)
	if err != nil {
		panic(err)
	}
	return p
}
