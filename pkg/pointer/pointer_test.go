// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/confkb/pkg/pointer"
)

func TestToVal(t *testing.T) {
	p := pointer.To("talk")
	assert.Equal(t, "talk", *p)
	assert.Equal(t, "talk", pointer.Val(p))

	var missing *int
	assert.Equal(t, 0, pointer.Val(missing))
}

func TestNilIfZero(t *testing.T) {
	assert.Nil(t, pointer.NilIfZero(""))
	assert.Nil(t, pointer.NilIfZero(0))
	assert.Equal(t, "GopherCon", *pointer.NilIfZero("GopherCon"))
}
