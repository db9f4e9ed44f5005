package record

import (
	"errors"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		format  string
		arity   int
		wantErr string
	}{
		{FaultFormat, 4, ""},
		{DeliveryFormat, 10, ""},
		{LatencyFormat, 5, ""},
		{"no placeholders", 0, ""},
		{"{uint}:{char}", 2, ""},
		{"x {float}", 0, "unknown placeholder"},
		{"x {int", 0, "unterminated"},
		{"{int}{uint}", 0, "directly follows"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			tpl, err := Compile(tt.format)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Compile(%q) error = %v, want %q", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.format, err)
			}
			if tpl.Arity() != tt.arity {
				t.Errorf("Arity() = %d, want %d", tpl.Arity(), tt.arity)
			}
			if tpl.String() != tt.format {
				t.Errorf("String() = %q", tpl.String())
			}
		})
	}
}

func TestTemplateMatch(t *testing.T) {
	tpl := MustCompile("[x: {int}] {uint}% {char}")

	tests := []struct {
		line    string
		want    []Value
		wantErr string
	}{
		{"[x: -3] 42% p", []Value{{Kind: KindInt, Int: -3}, {Kind: KindUint, Int: 42}, {Kind: KindChar, Char: 'p'}}, ""},
		{"[x: +7] 0% é", []Value{{Kind: KindInt, Int: 7}, {Kind: KindUint, Int: 0}, {Kind: KindChar, Char: 'é'}}, ""},
		{"(x: 1] 2% p", nil, `expected "[x: " at column 1`},
		{"[x:  1] 2% p", nil, "expected int at column 5"},
		{"[x: 1] -2% p", nil, "expected uint at column 8"},
		{"[x: 1] 2 p", nil, `expected "% " at column 9`},
		{"[x: 1] 2% ", nil, "expected char at column 11"},
		{"[x: 1] 2% pp", nil, "trailing input"},
		{"[x: 99999999999999999999] 2% p", nil, "out of range"},
		{"", nil, "column 1"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := tpl.Match(tt.line)
			if tt.wantErr != "" {
				if got != nil {
					t.Errorf("Match returned values %v alongside an error", got)
				}
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("error %v is not ErrMalformedRecord", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
				var mre *MalformedRecordError
				if !errors.As(err, &mre) || mre.Line != tt.line || mre.Template != tpl.String() {
					t.Errorf("error does not carry line and template: %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d values, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("value %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTemplateFormat(t *testing.T) {
	tpl := MustCompile("[x: {int}] {uint}% {char}")

	line, err := tpl.Format(IntValue(-3), IntValue(42), CharValue('p'))
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if line != "[x: -3] 42% p" {
		t.Errorf("Format = %q", line)
	}

	if _, err := tpl.Format(IntValue(1)); err == nil {
		t.Error("expected arity error")
	}
	if _, err := tpl.Format(IntValue(1), IntValue(-1), CharValue('p')); err == nil {
		t.Error("expected error for negative uint")
	}
	if _, err := tpl.Format(CharValue('a'), IntValue(1), CharValue('p')); err == nil {
		t.Error("expected kind mismatch error")
	}
}

func TestIsBlank(t *testing.T) {
	for _, line := range []string{"", " ", "\t", "\r"} {
		if !IsBlank(line) {
			t.Errorf("IsBlank(%q) = false", line)
		}
	}
	if IsBlank("n: 1") {
		t.Error("IsBlank on content should be false")
	}
}
