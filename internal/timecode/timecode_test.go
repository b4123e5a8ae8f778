// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package timecode

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   Time
		want string
	}{
		{"unset", None, ""},
		{"zero", At(0), "0.0"},
		{"rounds", At(0.74), "0.7"},
		{"rounds up", At(1.48), "1.5"},
		{"whole", At(2), "2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !None.Equal(Time{}) {
		t.Error("unset times should be equal")
	}
	if At(0).Equal(None) {
		t.Error("zero and unset should differ")
	}
	if !At(1.5).Equal(At(1.5)) {
		t.Error("same instants should be equal")
	}
}

func TestPtr(t *testing.T) {
	if Ptr(nil).Valid() {
		t.Error("nil pointer should be unset")
	}
	v := 0.3
	if sec, ok := Ptr(&v).Seconds(); !ok || sec != 0.3 {
		t.Errorf("Ptr(0.3) = %v, %v", sec, ok)
	}
}
