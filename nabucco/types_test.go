// Copyright (c) 2025 The Nabucco Authors
//
// Use of this software is governed by the MIT License included in the
// LICENSE file.

package nabucco

import "testing"

func TestNewValue_ArgumentsAreOrderedMostSignificantFirst(t *testing.T) {
	tests := map[string]struct {
		args []uint64
		want Value
	}{
		"empty":     {nil, Value{}},
		"one":       {[]uint64{1}, Value{31: 1}},
		"two":       {[]uint64{1, 2}, Value{23: 1, 31: 2}},
		"max limbs": {[]uint64{1, 2, 3, 4}, Value{7: 1, 15: 2, 23: 3, 31: 4}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := NewValue(test.args...); got != test.want {
				t.Errorf("NewValue(%v) = %v, want %v", test.args, got, test.want)
			}
		})
	}
}

func TestValue_AddSub(t *testing.T) {
	a := NewValue(100)
	b := NewValue(42)

	if got := Add(a, b); got != NewValue(142) {
		t.Errorf("Add = %v, want 142", got)
	}
	if got := Sub(a, b); got != NewValue(58) {
		t.Errorf("Sub = %v, want 58", got)
	}
	if got := Add(a, b); got.Cmp(a) <= 0 {
		t.Errorf("sum must compare greater than either operand")
	}
}

func TestValue_Scale(t *testing.T) {
	if got := NewValue(21).Scale(1000); got != NewValue(21000) {
		t.Errorf("Scale = %v, want 21000", got)
	}
}

func TestValue_TextRoundTrip(t *testing.T) {
	value := NewValue(0xdeadbeef)
	text, err := value.MarshalText()
	if err != nil {
		t.Fatalf("marshaling failed: %v", err)
	}
	var restored Value
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("unmarshaling failed: %v", err)
	}
	if restored != value {
		t.Errorf("round trip changed value: %v != %v", restored, value)
	}
}

func TestValue_UnmarshalRejectsInvalidInput(t *testing.T) {
	tests := map[string]string{
		"missing prefix": "deadbeef",
		"odd length":     "0xabc",
		"wrong size":     "0xabcd",
		"not hex":        "0xzz",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var value Value
			if err := value.UnmarshalText([]byte(input)); err == nil {
				t.Errorf("expected %q to be rejected", input)
			}
		})
	}
}

func TestAddress_String(t *testing.T) {
	addr := Address{0x12, 0x34}
	want := "0x1234000000000000000000000000000000000000"
	if got := addr.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
