package endpoint

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareKindOrder(t *testing.T) {
	ordered := []Value{
		Null(),
		Bool(false),
		Bool(true),
		Int(-5),
		Float(2.5),
		Int(3),
		String("A"),
		String("a"),
		Bytes([]byte{0x00}),
		Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second),
	}

	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%d vs %d", i, j)
			case i > j:
				assert.Equal(t, 1, got, "%d vs %d", i, j)
			default:
				assert.Equal(t, 0, got, "%d vs %d", i, j)
			}
		}
	}
}

func TestCompareNumbers(t *testing.T) {
	assert.Equal(t, 0, Compare(Int(2), Float(2.0)))
	assert.Equal(t, -1, Compare(Int(math.MaxInt64-1), Int(math.MaxInt64)))
	assert.Equal(t, -1, Compare(Float(math.NaN()), Float(-1)))
	assert.Equal(t, 0, Compare(Float(math.NaN()), Float(math.NaN())))
}

func TestEqual(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 20, 30, 123456789, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int equals float", Int(10), Float(10.0), true},
		{"different numbers", Int(10), Float(10.5), false},
		{"strings exact", String("Alice"), String("alice"), false},
		{"null equals null", Null(), Null(), true},
		{"null differs from empty string", Null(), String(""), false},
		{"number differs from string", Int(1), String("1"), false},
		{"time at coarser precision", Time(ts, time.Second), Time(ts.Truncate(time.Second), time.Microsecond), true},
		{"time differs beyond precision", Time(ts, time.Second), Time(ts.Add(time.Second), time.Second), false},
		{"date precision", Time(ts, 24*time.Hour), Time(ts.Add(time.Hour), time.Second), true},
		{"coerced by rendering", Coerced("1"), String("1"), true},
		{"coerced differs", Coerced("1"), Int(2), false},
		{"bytes", Bytes([]byte("ab")), Bytes([]byte("ab")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestRender(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.FixedZone("X", 3600))

	assert.Equal(t, "", Null().Render())
	assert.Nil(t, Null().Ptr())
	assert.Equal(t, "true", Bool(true).Render())
	assert.Equal(t, "42", Int(42).Render())
	assert.Equal(t, "2.5", Float(2.5).Render())
	assert.Equal(t, "0x0aff", Bytes([]byte{0x0a, 0xff}).Render())
	assert.Equal(t, "2024-03-01", Time(ts, 24*time.Hour).Render())
	assert.Equal(t, "2024-03-01T09:20:30Z", Time(ts, time.Second).Render())
	assert.Equal(t, "2024-03-01T09:20:30.5Z", Time(ts, time.Microsecond).Render())

	p := String("x").Ptr()
	if assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}

func TestBytesCopies(t *testing.T) {
	b := []byte("abc")
	v := Bytes(b)
	b[0] = 'z'
	assert.Equal(t, "abc", string(v.Bytes))
}
