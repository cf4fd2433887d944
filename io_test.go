package fmindex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ref := range []string{"ACGT", "GATTACA", testRandomRef(600)} {
		for _, opts := range []Opts{{SAIntv: 1, LookupLen: 3}, {SAIntv: 3, LookupLen: 2}} {
			idx := mustBuild(t, ref, opts)
			var buf bytes.Buffer
			assert.NoError(t, idx.Save(&buf))
			loaded, err := Load(bytes.NewReader(buf.Bytes()), opts)
			assert.NoError(t, err)
			assert.True(t, idx.Equal(loaded), "ref len %d opts %+v", len(ref), opts)
			expect.EQ(t, loaded.Fingerprint(), idx.Fingerprint())

			// Query answers must match byte for byte.
			for _, seed := range append(allSeeds(2), allSeeds(3)...) {
				b1, e1, r1 := idx.Range(encodeSeed(t, seed), 0)
				b2, e2, r2 := loaded.Range(encodeSeed(t, seed), 0)
				assert.EQ(t, []uint32{b2, e2, uint32(r2)}, []uint32{b1, e1, uint32(r1)}, "seed %s", seed)
				expect.EQ(t, loaded.Offsets(b2, e2), idx.Offsets(b1, e1), "seed %s", seed)
			}
		}
	}
}

func TestLoadRejectsTrailingBytes(t *testing.T) {
	idx := mustBuild(t, "ACGTACGT", testOpts())
	var buf bytes.Buffer
	assert.NoError(t, idx.Save(&buf))
	buf.WriteByte(0)
	_, err := Load(bytes.NewReader(buf.Bytes()), testOpts())
	if err == nil || !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("got %v, want trailing-bytes error", err)
	}
}

func TestLoadRejectsTruncation(t *testing.T) {
	idx := mustBuild(t, "ACGTACGT", testOpts())
	var buf bytes.Buffer
	assert.NoError(t, idx.Save(&buf))
	data := buf.Bytes()
	for _, n := range []int{0, 2, 17, len(data) / 2, len(data) - 1} {
		if _, err := Load(bytes.NewReader(data[:n]), testOpts()); err == nil {
			t.Fatalf("truncation to %d bytes not rejected", n)
		}
	}
}

func TestLoadRejectsMismatchedOpts(t *testing.T) {
	idx := mustBuild(t, "ACGTACGT", Opts{SAIntv: 1, LookupLen: 3})
	var buf bytes.Buffer
	assert.NoError(t, idx.Save(&buf))
	if _, err := Load(bytes.NewReader(buf.Bytes()), Opts{SAIntv: 1, LookupLen: 4}); err == nil {
		t.Fatal("lookup length mismatch not rejected")
	}
	if _, err := Load(bytes.NewReader(buf.Bytes()), Opts{SAIntv: 2, LookupLen: 3}); err == nil {
		t.Fatal("sampling interval mismatch not rejected")
	}
}

func TestEqual(t *testing.T) {
	a := mustBuild(t, "ACGTACGT", testOpts())
	b := mustBuild(t, "ACGTACGT", testOpts())
	c := mustBuild(t, "ACGTACGA", testOpts())
	expect.True(t, a.Equal(b))
	expect.True(t, b.Equal(a))
	expect.False(t, a.Equal(c))
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("distinct indexes share a fingerprint")
	}
}
