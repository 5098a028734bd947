package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jabolina/gompi/pkg/gompi/types"
)

func TestApplyReduceOpMax(t *testing.T) {
	dst := []byte{1, 9, 3}
	src := []byte{5, 2, 3}
	applyReduceOp(types.OpMax, dst, src)
	assert.Equal(t, []byte{5, 9, 3}, dst)
}

func TestApplyReduceOpMin(t *testing.T) {
	dst := []byte{1, 9, 3}
	src := []byte{5, 2, 3}
	applyReduceOp(types.OpMin, dst, src)
	assert.Equal(t, []byte{1, 2, 3}, dst)
}

func TestApplyReduceOpSum(t *testing.T) {
	dst := []byte{1, 9, 250}
	src := []byte{5, 2, 10}
	applyReduceOp(types.OpSum, dst, src)
	assert.Equal(t, []byte{6, 11, 4}, dst, "SUM wraps modulo 2^8")
}

func TestApplyReduceOpProd(t *testing.T) {
	dst := []byte{2, 9, 100}
	src := []byte{5, 2, 5}
	applyReduceOp(types.OpProd, dst, src)
	assert.Equal(t, []byte{10, 18, 244}, dst, "PROD wraps modulo 2^8")
}
