package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.0", 1, true},
		{"1.23", 1.23, true},
		{"1,23", 1.23, true},
		{" 2.50 ", 2.5, true},
		{"-1", -1, true},
		{"+4", 4, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,2,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		5:      "5.00",
		0:      "0.00",
		12.345: "12.35",
		-3.5:   "-3.50",
		0.1:    "0.10",
		1e6:    "1000000.00",
		1.005:  "1.00",
		2.675:  "2.67",
		1.045:  "1.04",
		0.125:  "0.13",
		-1.005: "-1.00",
		-0.125: "-0.13",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(33.33333); got != 33.33 {
		t.Fatalf("got %v", got)
	}
	if got := Round2(-1.005); got != -1.01 {
		t.Fatalf("got %v", got)
	}
}
