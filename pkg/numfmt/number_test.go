package numfmt

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/danmaku/pkg/errors"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		x    *big.Rat
		want string
	}{
		{"integer", big.NewRat(4368, 1), "4368"},
		{"negative integer", big.NewRat(-260, 1), "-260"},
		{"zero", new(big.Rat), "0"},
		{"half", big.NewRat(1, 2), "0.5"},
		{"eighths", big.NewRat(215, 8), "26.875"},
		{"negative fraction", big.NewRat(-3, 40), "-0.075"},
		{"fifths", big.NewRat(3, 5), "0.6"},
		{"large power of ten", big.NewRat(1, 100000000), "0.00000001"},
		{"reducible", big.NewRat(10, 4), "2.5"},
		{"integer from fraction", big.NewRat(26, 13), "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Number(tt.x)
			if err != nil {
				t.Fatalf("Number(%s) error: %v", tt.x, err)
			}
			if got != tt.want {
				t.Errorf("Number(%s) = %q, want %q", tt.x, got, tt.want)
			}
			back, ok := new(big.Rat).SetString(got)
			if !ok || back.Cmp(tt.x) != 0 {
				t.Errorf("Number(%s) = %q does not parse back exactly", tt.x, got)
			}
		})
	}
}

func TestNumberInexact(t *testing.T) {
	_, err := Number(big.NewRat(1, 3))
	if !errors.Is(err, errors.ErrCodeInexactDecimal) {
		t.Errorf("Number(1/3) error = %v, want INEXACT_DECIMAL", err)
	}
}

func TestMustNumberPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNumber(1/7) should panic")
		}
	}()
	MustNumber(big.NewRat(1, 7))
}

func TestApprox(t *testing.T) {
	tests := []struct {
		x      *big.Rat
		digits int
		want   string
	}{
		{big.NewRat(1, 3), 3, "0.333"},
		{big.NewRat(2, 3), 2, "0.67"},
		{big.NewRat(-1, 1000), 2, "0"},
		{big.NewRat(5, 1), 4, "5"},
		{big.NewRat(1, 8), 2, "0.13"},
	}
	for _, tt := range tests {
		if got := Approx(tt.x, tt.digits); got != tt.want {
			t.Errorf("Approx(%s, %d) = %q, want %q", tt.x, tt.digits, got, tt.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name string
		s    *big.Rat
		want string
	}{
		{"zero", new(big.Rat), "0:00:00.00"},
		{"negative clamps", big.NewRat(-5, 1), "0:00:00.00"},
		{"fraction", big.NewRat(1234, 100), "0:00:12.34"},
		{"minutes", big.NewRat(754, 1), "0:12:34.00"},
		{"hours", big.NewRat(3723, 1), "1:02:03.00"},
		{"carry into seconds", big.NewRat(59999, 1000), "0:01:00.00"},
		{"tie to even", big.NewRat(1005, 1000), "0:00:01.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timestamp(tt.s); got != tt.want {
				t.Errorf("Timestamp(%s) = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}

func TestColorAndAlpha(t *testing.T) {
	if got := Color(0xff8000); got != "&H0080FF" {
		t.Errorf("Color() = %q", got)
	}
	if got := Alpha(big.NewRat(3, 5)); got != "&H66" {
		t.Errorf("Alpha(0.6) = %q, want &H66", got)
	}
	if got := Alpha(big.NewRat(1, 1)); got != "&H00" {
		t.Errorf("Alpha(1) = %q", got)
	}
	if got := Alpha(new(big.Rat)); got != "&HFF" {
		t.Errorf("Alpha(0) = %q", got)
	}
}

func TestDecimalJSON(t *testing.T) {
	var v struct {
		A Decimal `json:"a"`
		B Decimal `json:"b"`
		C Decimal `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 0.1, "b": "215/8", "c": "26.875"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A.Rat().Cmp(big.NewRat(1, 10)) != 0 {
		t.Errorf("a = %s, want 1/10", v.A.Rat())
	}
	if v.B.Rat().Cmp(big.NewRat(215, 8)) != 0 || v.C.Rat().Cmp(big.NewRat(215, 8)) != 0 {
		t.Errorf("b, c = %s, %s", v.B.Rat(), v.C.Rat())
	}

	out, err := json.Marshal(map[string]Decimal{"x": NewDecimal(big.NewRat(1, 3)), "y": NewDecimal(big.NewRat(3, 4))})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"x":"1/3","y":0.75}` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestDecimalTOML(t *testing.T) {
	var v struct {
		Opacity Decimal `toml:"opacity"`
		Width   Decimal `toml:"width"`
		Height  Decimal `toml:"height"`
	}
	_, err := toml.Decode("opacity = 0.6\nwidth = 672\nheight = \"378\"\n", &v)
	if err != nil {
		t.Fatal(err)
	}
	if v.Opacity.Rat().Cmp(big.NewRat(3, 5)) != 0 {
		t.Errorf("opacity = %s", v.Opacity.Rat())
	}
	if v.Width.Rat().Cmp(big.NewRat(672, 1)) != 0 || v.Height.Rat().Cmp(big.NewRat(378, 1)) != 0 {
		t.Errorf("width, height = %s, %s", v.Width.Rat(), v.Height.Rat())
	}
}

func TestDecimalYAML(t *testing.T) {
	var v struct {
		Opacity Decimal `yaml:"opacity"`
		Scale   Decimal `yaml:"scale"`
	}
	if err := yaml.Unmarshal([]byte("opacity: 0.6\nscale: \"13\"\n"), &v); err != nil {
		t.Fatal(err)
	}
	if v.Opacity.Rat().Cmp(big.NewRat(3, 5)) != 0 || v.Scale.Rat().Cmp(big.NewRat(13, 1)) != 0 {
		t.Errorf("opacity, scale = %s, %s", v.Opacity.Rat(), v.Scale.Rat())
	}
}

func TestDecimalUnset(t *testing.T) {
	var d Decimal
	if d.IsSet() {
		t.Error("zero Decimal should be unset")
	}
	if d.Rat().Sign() != 0 {
		t.Error("unset Decimal should read as zero")
	}
}

func TestDecimalInvalid(t *testing.T) {
	if _, err := ParseDecimal("abc"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseDecimal(abc) error = %v, want INVALID_INPUT", err)
	}
	var v struct {
		A Decimal `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a": "1/x"}`), &v); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("json error = %v, want INVALID_INPUT", err)
	}
	var d Decimal
	if err := d.UnmarshalTOML(true); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("UnmarshalTOML(bool) error = %v, want INVALID_INPUT", err)
	}
}
