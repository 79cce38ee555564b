package merge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/graphcost/cost/internal/varint"
)

func encodeDeltas(t *testing.T, absolutes []uint64) *varint.Decoder {
	t.Helper()
	var buf bytes.Buffer
	var prev uint64
	for i, v := range absolutes {
		if i == 0 {
			if err := varint.Encode(&buf, v); err != nil {
				t.Fatalf("Encode: %v", err)
			}
		} else {
			if err := varint.Encode(&buf, v-prev); err != nil {
				t.Fatalf("Encode: %v", err)
			}
		}
		prev = v
	}
	return varint.NewDecoder(&buf)
}

func TestMergeInterleavesAndDedupes(t *testing.T) {
	a := encodeDeltas(t, []uint64{1, 3, 5, 9})
	b := encodeDeltas(t, []uint64{2, 3, 4, 9, 10})
	var got []uint64
	err := Merge([]*varint.Decoder{a, b}, func(z uint64) error {
		got = append(got, z)
		return nil
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []uint64{1, 2, 3, 4, 5, 9, 10}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMergeEmptyStreams(t *testing.T) {
	a := encodeDeltas(t, nil)
	b := encodeDeltas(t, nil)
	count := 0
	err := Merge([]*varint.Decoder{a, b}, func(z uint64) error { count++; return nil })
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if count != 0 {
		t.Errorf("Merge over empty streams called sink %d times, want 0", count)
	}
}

func TestMergeSingleStreamPassthrough(t *testing.T) {
	a := encodeDeltas(t, []uint64{5, 10, 15})
	var got []uint64
	err := Merge([]*varint.Decoder{a}, func(z uint64) error {
		got = append(got, z)
		return nil
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	want := []uint64{5, 10, 15}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMergeSinkError(t *testing.T) {
	a := encodeDeltas(t, []uint64{1, 2})
	wantErr := errors.New("boom")
	err := Merge([]*varint.Decoder{a}, func(z uint64) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("Merge sink error = %v, want wrapping %v", err, wantErr)
	}
}
