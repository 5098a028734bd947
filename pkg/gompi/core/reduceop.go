package core

import "github.com/jabolina/gompi/pkg/gompi/types"

// applyReduceOp applies op elementwise between dst and src, writing the
// result into dst. Both slices must be the same length. SUM and PROD wrap
// modulo 2^8, which plain byte arithmetic already does.
func applyReduceOp(op types.ReduceOp, dst, src []byte) {
	for i := range dst {
		a, b := dst[i], src[i]
		switch op {
		case types.OpMax:
			if b > a {
				dst[i] = b
			}
		case types.OpMin:
			if b < a {
				dst[i] = b
			}
		case types.OpSum:
			dst[i] = a + b
		case types.OpProd:
			dst[i] = a * b
		}
	}
}
