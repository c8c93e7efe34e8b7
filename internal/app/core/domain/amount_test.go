package domain

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.50", 125000, false},
		{"1", 10000, false},
		{" 0.0001 ", 1, false},
		{"-3", -30000, false},
		{"0.00001", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"922337203685477.5808", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) || !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("err = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{
		0:       "0.00",
		10000:   "1.00",
		125000:  "12.50",
		1:       "0.0001",
		123456:  "12.3456",
		-250000: "-25.00",
	}
	for in, want := range tests {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}
