package ristretto_test

import (
	"testing"

	"github.com/Strob0t/NetForge/internal/adapter/ristretto"
	"github.com/Strob0t/NetForge/internal/port/cache/cachetest"
)

func TestRistrettoCompliance(t *testing.T) {
	c, err := ristretto.New(1 << 20)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)

	cachetest.Run(t, c)
}
