package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrim(t *testing.T) {
	assert.Equal(t, []string{"red", "gold"}, SplitTrim(" red, gold ,", ","))
	assert.Equal(t, []string{}, SplitTrim("  ", ","))
}

func TestNewProductIDIsUniqueAndOrdered(t *testing.T) {
	a := NewProductID()
	b := NewProductID()
	assert.NotEqual(t, a, b)
	assert.Less(t, UUIDint64(), UUIDint64())
}

func TestNewBannerID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "banner-1700000000123", NewBannerID(ts))
}

func TestIfEmptyStr(t *testing.T) {
	assert.Equal(t, NA, IfEmptyStr(" ", NA))
	assert.Equal(t, "silk", IfEmptyStr("silk", NA))
}
