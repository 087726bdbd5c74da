package operator

import (
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jpext/internal/datum"
	"github.com/jacoelho/jpext/internal/literal"
)

func find(t *testing.T, token string, value any) []any {
	t.Helper()

	op, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", token, err)
	}

	results, err := op.Find(datum.Wrap(value))
	if err != nil {
		t.Fatalf("%s.Find(%#v) error = %v", token, value, err)
	}

	return datum.Values(results)
}

func TestOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		value any
		want  []any
	}{
		{name: "splitlist_space_int", token: "splitlist( , int)", value: "1 2 3 4", want: []any{1, 2, 3, 4}},
		{name: "splitlist_pipe_boolean", token: "splitlist(|, boolean)", value: "1|2|3|4", want: []any{true, true, true, true}},
		{name: "splitlist_comma_float", token: "splitlist(,, float)", value: "1,2,3,4", want: []any{1.0, 2.0, 3.0, 4.0}},
		{name: "splitlist_empty_string", token: "splitlist(|, int)", value: "", want: []any{}},
		{name: "splitlist_null", token: "splitlist(|, int)", value: nil, want: []any{}},
		{name: "splitlist_zero", token: "splitlist(|, int)", value: 0, want: []any{}},
		{name: "splitlist_empty_list", token: "splitlist(|, int)", value: []any{}, want: []any{}},
		{name: "splitlist_non_string", token: "splitlist(|, int)", value: 12.0, want: []any{}},
		{name: "cast_float_bad_keeps_value", token: "cast(float)", value: "1.04s", want: []any{"1.04s"}},
		{name: "cast_float", token: "cast(float)", value: "1.04", want: []any{1.04}},
		{name: "cast_int_from_float_string", token: "cast(int)", value: "1.09", want: []any{1}},
		{name: "cast_string", token: "cast(string)", value: 1.5, want: []any{"1.5"}},
		{name: "cast_boolean_zero_string", token: "cast(boolean)", value: "0", want: []any{true}},
		{name: "cast_boolean_zero", token: "cast(boolean)", value: 0.0, want: []any{false}},
		{name: "cast_json", token: "cast(json)", value: "0", want: []any{0.0}},
		{name: "cast_bad_json_keeps_value", token: "cast(json)", value: `"{!}`, want: []any{`"{!}`}},
		{name: "cast_null", token: "cast(null)", value: "x", want: []any{nil}},
		{name: "notmatch_null_literal", token: "notmatch(other, 0)", value: "0", want: []any{nil}},
		{name: "match_false", token: "match(1, null)", value: "0", want: []any{false}},
		{name: "match_true", token: "match(0, null)", value: "0", want: []any{true}},
		{name: "notmatch_true", token: "notmatch(1, null)", value: "0", want: []any{true}},
		{name: "notmatch_false", token: "notmatch(0, null)", value: "0", want: []any{false}},
		{name: "match_number_null_literal", token: "match(2, 0)", value: 0.0, want: []any{nil}},
		{name: "match_number", token: "match(1, 0)", value: 1.0, want: []any{true}},
		{name: "match_null_value", token: "match(1, null)", value: nil, want: []any{nil}},
		{name: "datetime_year", token: "datetime(%Y-%m-%d, 0:4)", value: "2019-01-01", want: []any{"2019"}},
		{name: "datetime_step", token: "datetime(%Y-%m-%d, 0:4:2)", value: "2019-01-01", want: []any{"21"}},
		{name: "datetime_full_double_colon", token: "datetime(%Y-%m-%d, ::)", value: "2019-01-01", want: []any{"2019-01-01T00:00:00"}},
		{name: "datetime_full_colon", token: "datetime(%Y-%m-%d, :)", value: "2019-01-01", want: []any{"2019-01-01T00:00:00"}},
		{name: "datetime_negative_start", token: "datetime(%Y-%m-%d %H:%M:%S, -8:)", value: "2019-01-01 10:20:30", want: []any{"10:20:30"}},
		{name: "datetime_bad_slice", token: "datetime(%Y-%m-%d, 1:2:3:4)", value: "2019-01-01", want: []any{nil}},
		{name: "datetime_zero_step", token: "datetime(%Y-%m-%d, ::0)", value: "2019-01-01", want: []any{nil}},
		{name: "datetime_non_string", token: "datetime(%Y-%m-%d, ::)", value: 2019.0, want: []any{nil}},
		{name: "datetime_unpadded", token: "datetime(%Y-%m-%d, ::)", value: "2019-1-1", want: []any{"2019-01-01T00:00:00"}},
		{name: "datetime_unpadded_day_first", token: "datetime(%d/%m/%Y, 0:10)", value: "5/1/2019", want: []any{"2019-01-05"}},
		{name: "datetime_time_only", token: "datetime(%H:%M, ::)", value: "7:05", want: []any{"1900-01-01T07:05:00"}},
		{name: "datetime_mismatch", token: "datetime(%Y-%m-%d, ::)", value: "01/01/2019", want: []any{nil}},
		{name: "valuereplace_match", token: "valuereplace(1.04s, clean_value)", value: "1.04s", want: []any{"clean_value"}},
		{name: "valuereplace_keeps_value", token: "valuereplace(1.04_missing, clean_value)", value: "1.04s", want: []any{"1.04s"}},
		{name: "valuereplace_bool", token: "valuereplace(true, clean_value)", value: true, want: []any{"clean_value"}},
		{name: "valuereplace_bool_capitalised", token: "valuereplace(True, clean_value)", value: true, want: []any{true}},
		{name: "valuereplace_whole_float", token: "valuereplace(1, one)", value: 1.0, want: []any{"one"}},
		{name: "template_string", token: "template(id-{})", value: "x", want: []any{`id-"x"`}},
		{name: "template_bool", token: "template(flag={0})", value: false, want: []any{"flag=false"}},
		{name: "template_null", token: "template({} {{literal}})", value: nil, want: []any{"null {literal}"}},
		{name: "template_mapping", token: "template(<{}>)", value: map[string]any{"b": 1, "a": "<"}, want: []any{`<{"a":"<","b":1}>`}},
		{name: "dictionaryreplace_hit", token: "dictionaryreplace({'m': 'male', 'f': 'female'})", value: "f", want: []any{"female"}},
		{name: "dictionaryreplace_number", token: "dictionaryreplace({1: 'one', 2: 'two'})", value: 2.0, want: []any{"two"}},
		{name: "dictionaryreplace_absent", token: "dictionaryreplace({'m': 'male'})", value: "x", want: []any{nil}},
		{name: "dictionaryreplace_unhashable", token: "dictionaryreplace({'m': 'male'})", value: map[string]any{"m": 1}, want: []any{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := find(t, tt.token, tt.value)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("%s on %#v = %#v, want %#v", tt.token, tt.value, got, tt.want)
			}
		})
	}
}

func TestParseInvalidSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "splitlist_missing_args", token: "splitlist(,)"},
		{name: "splitlist_missing_delimiter", token: "splitlist(, int)"},
		{name: "splitlist_long_delimiter", token: "splitlist(||, int)"},
		{name: "match_without_space", token: "match(a,b)"},
		{name: "match_one_arg", token: "match(a)"},
		{name: "cast_empty", token: "cast()"},
		{name: "cast_unclosed", token: "cast(int"},
		{name: "hash_trailing_text", token: "hash(a) extra"},
		{name: "valuereplace_one_arg", token: "valuereplace(a)"},
		{name: "template_unbalanced", token: "template(id-{)"},
		{name: "template_named_field", token: "template({name})"},
		{name: "template_lone_close", token: "template(a}b)"},
		{name: "dictionaryreplace_not_mapping", token: "dictionaryreplace([1, 2])"},
		{name: "dictionaryreplace_nested", token: "dictionaryreplace({'a': [1]})"},
		{name: "dictionaryreplace_plain", token: "dictionaryreplace(a)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token)
			if !errors.Is(err, ErrSignatureInvalid) {
				t.Fatalf("Parse(%q) error = %v, want ErrSignatureInvalid", tt.token, err)
			}

			var sigErr *SignatureError
			if !errors.As(err, &sigErr) || sigErr.Token != tt.token || sigErr.Pattern == "" {
				t.Fatalf("Parse(%q) error = %#v, want *SignatureError with token and pattern", tt.token, err)
			}
		})
	}
}

func TestDictionaryReplaceWrapsLiteralError(t *testing.T) {
	t.Parallel()

	_, err := Parse("dictionaryreplace({'a': 1, 'a': 2})")
	if !errors.Is(err, ErrSignatureInvalid) || !errors.Is(err, literal.ErrInvalidMapping) {
		t.Fatalf("Parse() error = %v, want ErrSignatureInvalid wrapping ErrInvalidMapping", err)
	}
}

func TestParseArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{name: "comma_is_content_without_space", token: "match(a,b, c)", want: []string{"a,b", "c"}},
		{name: "last_separator_wins", token: "valuereplace(a, b, c)", want: []string{"a, b", "c"}},
		{name: "second_space_is_content", token: "match(a,  b)", want: []string{"a", " b"}},
		{name: "comma_delimiter", token: "splitlist(,, float)", want: []string{",", "float"}},
		{name: "space_delimiter", token: "splitlist( , int)", want: []string{" ", "int"}},
		{name: "mapping", token: "dictionaryreplace({'a': 1, 'b': 2})", want: []string{"{'a': 1, 'b': 2}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := lookup(tt.token)
			if s == nil {
				t.Fatalf("lookup(%q) = nil", tt.token)
			}
			got, err := s.args(tt.token)
			if err != nil {
				t.Fatalf("args(%q) error = %v", tt.token, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("args(%q) = %q, want %q", tt.token, got, tt.want)
			}
			if len(got) != s.arity() {
				t.Fatalf("args(%q) len = %d, want arity %d", tt.token, len(got), s.arity())
			}
		})
	}
}

func TestDatetimeDefinitionInvalid(t *testing.T) {
	t.Parallel()

	_, err := Parse("datetime(%Y-%g-%d, ::)")
	var defErr *DefinitionError
	if !errors.As(err, &defErr) || defErr.Format != "%Y-%g-%d" {
		t.Fatalf("Parse(unsupported directive) error = %v, want *DefinitionError", err)
	}
	if !errors.Is(err, ErrDefinitionInvalid) {
		t.Fatalf("Parse(unsupported directive) error = %v, want ErrDefinitionInvalid", err)
	}
}

func TestDatetimeMismatchKeepsOtherResults(t *testing.T) {
	t.Parallel()

	op, err := Parse("datetime(%Y-%m-%d, 0:4)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	results, err := op.Find(datum.Wrap([]any{"1815-12-10", "1912-6-23", "unknown"}))
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []any{"1815", "1912", nil}
	if got := datum.Values(results); !reflect.DeepEqual(got, want) {
		t.Fatalf("Find() = %#v, want %#v", got, want)
	}
}

func TestDatetimeZone(t *testing.T) {
	t.Parallel()

	got := find(t, "datetime(%Y-%m-%dT%H:%M:%S%z, ::)", "2019-01-01T10:20:30+0100")
	want := []any{"2019-01-01T10:20:30+01:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find() = %#v, want %#v", got, want)
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	digest := func(token string, value any) string {
		t.Helper()
		got := find(t, token, value)
		if len(got) != 1 {
			t.Fatalf("%s returned %d results", token, len(got))
		}
		s, ok := got[0].(string)
		if !ok || len(s) != 32 {
			t.Fatalf("%s = %#v, want 32 hex characters", token, got[0])
		}
		return s
	}

	a := digest("hash(a)", map[string]any{"a": 1.0, "b": 2.0})
	b := digest("hash(a)", map[string]any{"b": 2.0, "a": 1.0})
	if a != b {
		t.Fatalf("key order changed digest: %s != %s", a, b)
	}

	if salted := digest("hash(b)", map[string]any{"a": 1.0, "b": 2.0}); salted == a {
		t.Fatal("different salts produced the same digest")
	}

	if digest("hash(a)", []any{1.0, 2.0}) == digest("hash(a)", []any{2.0, 1.0}) {
		t.Fatal("different sequences produced the same digest")
	}

	sum := md5.Sum([]byte(`s"x"`))
	if got, want := digest("hash(s)", "x"), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("hash(s) on \"x\" = %s, want %s", got, want)
	}
}

func TestDigestCanonicalizationError(t *testing.T) {
	t.Parallel()

	_, err := Digest("s", map[string]any{"f": func() {}})
	var canonErr *CanonicalizationError
	if !errors.As(err, &canonErr) {
		t.Fatalf("Digest() error = %v, want *CanonicalizationError", err)
	}

	got := find(t, "hash(s)", map[string]any{"f": func() {}})
	if !reflect.DeepEqual(got, []any{nil}) {
		t.Fatalf("hash of unserializable value = %#v, want [nil]", got)
	}
}

func TestBroadcast(t *testing.T) {
	t.Parallel()

	input := []any{"1.5", "x", nil, "4"}
	tokens := []string{
		"cast(int)",
		"match(x, null)",
		"notmatch(x, null)",
		"hash(salt)",
		"template(<{}>)",
		"valuereplace(x, y)",
		"dictionaryreplace({'x': 'why'})",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			op, err := Parse(token)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			results, err := op.Find(datum.Datum{Path: "$['items']", Value: input})
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(results) != len(input) {
				t.Fatalf("Find() returned %d results, want %d", len(results), len(input))
			}

			for i, item := range input {
				single, err := op.Find(datum.Wrap(item))
				if err != nil {
					t.Fatalf("Find(%#v) error = %v", item, err)
				}
				if !reflect.DeepEqual(results[i].Value, single[0].Value) {
					t.Fatalf("result[%d] = %#v, want %#v", i, results[i].Value, single[0].Value)
				}
				if want := "$['items'][" + string(rune('0'+i)) + "]"; results[i].Path != want {
					t.Fatalf("result[%d].Path = %q, want %q", i, results[i].Path, want)
				}
			}
		})
	}
}

func TestSplitListPaths(t *testing.T) {
	t.Parallel()

	op, err := Parse("splitlist(|, none)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	results, err := op.Find(datum.Datum{Path: "$['pipe']", Value: "a|b"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []datum.Datum{{Path: "$['pipe'][0]", Value: "a"}, {Path: "$['pipe'][1]", Value: "b"}}
	if !reflect.DeepEqual(results, want) {
		t.Fatalf("Find() = %#v, want %#v", results, want)
	}
}

func TestEqualityAndDisplay(t *testing.T) {
	t.Parallel()

	a, err := Parse("cast(int)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := Parse("`cast(int)`")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c, err := Parse("cast(float)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !Equal(a, b) {
		t.Fatal("operators from the same token are not equal")
	}
	if Equal(a, c) {
		t.Fatal("operators from different tokens are equal")
	}
	if a.String() != "`cast(int)`" || a.String() != b.String() {
		t.Fatalf("String() = %q, %q", a.String(), b.String())
	}
	if a.GoString() != `Cast("cast(int)")` {
		t.Fatalf("GoString() = %q", a.GoString())
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Fatal("nil handling in Equal")
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := []string{
		"splitlist(|, int)",
		"cast(json)",
		"match(a, null)",
		"notmatch(a, null)",
		"datetime(%Y-%m-%d, 0:4)",
		"hash(salt)",
		"valuereplace(a, b)",
		"template(<{}>)",
		"dictionaryreplace({'a': 1})",
	}

	for _, token := range tokens {
		op, err := Parse(token)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", token, err)
		}

		again, err := Parse(op.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", op.String(), err)
		}
		if !Equal(op, again) {
			t.Fatalf("round trip of %#v produced %#v", op, again)
		}
	}
}

type fakeHost struct {
	tokens []string
}

type fakeFinder string

func (f fakeFinder) Find(d datum.Datum) ([]datum.Datum, error) { return []datum.Datum{d}, nil }
func (f fakeFinder) String() string                            { return string(f) }

func (h *fakeHost) NamedOperator(token string) (datum.Finder, error) {
	h.tokens = append(h.tokens, token)
	return fakeFinder(token), nil
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	kinds := map[string]Kind{
		"splitlist(|, int)":           KindSplitList,
		"cast(int)":                   KindCast,
		"match(a, b)":                 KindMatch,
		"notmatch(a, b)":              KindNotMatch,
		"datetime(%Y, ::)":            KindDatetime,
		"hash(a)":                     KindHash,
		"valuereplace(a, b)":          KindValueReplace,
		"template({})":                KindTemplate,
		"dictionaryreplace({'a': 1})": KindDictionaryReplace,
	}

	host := &fakeHost{}
	for token, kind := range kinds {
		f, err := Dispatch(token, host)
		if err != nil {
			t.Fatalf("Dispatch(%q) error = %v", token, err)
		}
		op, ok := f.(Operator)
		if !ok || op.Kind() != kind {
			t.Fatalf("Dispatch(%q) = %#v, want kind %s", token, f, kind)
		}
	}
	if len(host.tokens) != 0 {
		t.Fatalf("host received registered tokens: %v", host.tokens)
	}

	f, err := Dispatch("`len`", host)
	if err != nil {
		t.Fatalf("Dispatch(len) error = %v", err)
	}
	if f.String() != "len" || !reflect.DeepEqual(host.tokens, []string{"len"}) {
		t.Fatalf("Dispatch(len) = %v, host saw %v", f, host.tokens)
	}

	if _, err := Dispatch("space", nil); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("Dispatch(space, nil) error = %v, want ErrUnknownOperator", err)
	}

	if _, err := Dispatch("cast()", host); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("Dispatch(cast()) error = %v, want ErrSignatureInvalid", err)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	want := []string{
		"splitlist", "cast", "match", "notmatch", "datetime",
		"hash", "valuereplace", "template", "dictionaryreplace",
	}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	arities := map[string]int{
		"splitlist": 2, "cast": 1, "match": 2, "notmatch": 2, "datetime": 2,
		"hash": 1, "valuereplace": 2, "template": 1, "dictionaryreplace": 1,
	}
	for name, want := range arities {
		if got, ok := Arity(name); !ok || got != want {
			t.Fatalf("Arity(%q) = %d, %v, want %d", name, got, ok, want)
		}
	}
	if _, ok := Arity("len"); ok {
		t.Fatal("Arity(len) reported a registered operator")
	}
}
