package coerce

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		kind  string
		want  any
	}{
		{name: "int_from_int_string", value: "12", kind: "int", want: 12},
		{name: "int_from_float_string", value: "1.09", kind: "int", want: 1},
		{name: "int_from_negative_float_string", value: "-1.9", kind: "int", want: -1},
		{name: "int_from_float", value: 3.99, kind: "int", want: 3},
		{name: "int_from_bool", value: true, kind: "int", want: 1},
		{name: "int_from_json_number", value: json.Number("8"), kind: "int", want: 8},
		{name: "int_bad_string_keeps_value", value: "1.04s", kind: "int", want: "1.04s"},
		{name: "int_nil_keeps_value", value: nil, kind: "int", want: nil},
		{name: "int_nan_string_keeps_value", value: "nan", kind: "int", want: "nan"},
		{name: "float_from_string", value: "1.04", kind: "float", want: 1.04},
		{name: "float_bad_string_keeps_value", value: "1.04s", kind: "float", want: "1.04s"},
		{name: "float_from_int", value: 2, kind: "float", want: 2.0},
		{name: "float_list_keeps_value", value: []any{1}, kind: "float", want: []any{1}},
		{name: "boolean_from_zero_string", value: "0", kind: "boolean", want: true},
		{name: "boolean_from_zero", value: 0, kind: "boolean", want: false},
		{name: "boolean_from_empty", value: "", kind: "boolean", want: false},
		{name: "string_from_float", value: 1.0, kind: "string", want: "1"},
		{name: "string_from_bool", value: false, kind: "string", want: "false"},
		{name: "json_from_string", value: "0", kind: "json", want: float64(0)},
		{name: "json_object", value: `{"a":[1]}`, kind: "json", want: map[string]any{"a": []any{float64(1)}}},
		{name: "json_bad_keeps_value", value: `"{!}`, kind: "json", want: `"{!}`},
		{name: "json_non_string_keeps_value", value: 4.0, kind: "json", want: 4.0},
		{name: "none", value: "x", kind: "none", want: "x"},
		{name: "null", value: "x", kind: "null", want: nil},
		{name: "unknown_is_identity", value: "x", kind: "widget", want: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.value, tt.kind)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Coerce(%#v, %q) = %#v, want %#v", tt.value, tt.kind, got, tt.want)
			}
		})
	}
}

func TestCoerceNeverFails(t *testing.T) {
	t.Parallel()

	values := []any{
		nil, true, false, "", "abc", "1e400", math.Inf(1), math.NaN(), 1 << 62,
		[]any{}, map[string]any{"a": nil}, json.Number("bad"), struct{}{},
	}

	for _, kind := range Kinds() {
		for _, value := range values {
			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("Coerce(%#v, %q) panicked: %v", value, kind, r)
					}
				}()
				_ = Coerce(value, string(kind))
			}()
		}
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		if !Known(string(kind)) {
			t.Fatalf("Known(%q) = false", kind)
		}
	}
	if Known("widget") {
		t.Fatal("Known(widget) = true")
	}
}
