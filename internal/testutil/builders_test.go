package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductBuilder(t *testing.T) {
	p := NewProduct(3).WithTitle("Mens Cotton Jacket").WithPrice("55.99").WithCategory("jackets").Build()

	require.NoError(t, p.Validate())
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "55.99", p.Price.StringFixed(2))
	assert.Equal(t, "jackets", p.Category)
}

func TestSignedTokens(t *testing.T) {
	exp := TestTime().Add(time.Hour)
	tokens := SignedTokens(t, exp)

	require.True(t, tokens.Complete())
	got, ok := tokens.AccessExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestClock(t *testing.T) {
	c := NewClock(TestTime())
	c.Advance(90 * time.Second)
	assert.Equal(t, TestTime().Add(90*time.Second), c.Now())
}
