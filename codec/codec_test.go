package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type session struct {
	User  string            `json:"user" msgpack:"user" cbor:"user"`
	Roles []string          `json:"roles" msgpack:"roles" cbor:"roles"`
	Attrs map[string]string `json:"attrs" msgpack:"attrs" cbor:"attrs"`
}

func sample() session {
	return session{
		User:  "alice",
		Roles: []string{"admin", "dev"},
		Attrs: map[string]string{"tz": "UTC"},
	}
}

func TestRoundTrip(t *testing.T) {
	codecs := map[string]Codec[session]{
		"json":            JSON[session]{},
		"gob":             Gob[session]{},
		"msgpack":         Msgpack[session]{},
		"cbor":            MustCBOR[session](CBOROptions{}),
		"cborDet":         MustCBOR[session](CBOROptions{Deterministic: true}),
		"msgpackJSONTags": Msgpack[session]{JSONTags: true},
	}
	for name, cd := range codecs {
		t.Run(name, func(t *testing.T) {
			b, err := cd.Encode(sample())
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := cd.Decode(b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got, sample()) {
				t.Fatalf("round trip mismatch: got %+v", got)
			}
		})
	}
}

func TestGobMapValue(t *testing.T) {
	cd := Gob[map[string]string]{}
	in := map[string]string{"user": "alice"}
	b, err := cd.Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := cd.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got %v want %v", got, in)
	}
}

func TestGobRejectsUnencodable(t *testing.T) {
	type withFunc struct{ F func() }
	if _, err := (Gob[withFunc]{}).Encode(withFunc{F: func() {}}); err == nil {
		t.Fatal("expected encode error for func field")
	}
}

func TestCBORDeterministicIsStable(t *testing.T) {
	cd := MustCBOR[map[string]int](CBOROptions{Deterministic: true})
	in := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := cd.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _ := cd.Encode(in)
		if string(again) != string(first) {
			t.Fatalf("deterministic encoding changed on iteration %d", i)
		}
	}
}

func TestCBORTime(t *testing.T) {
	cd := MustCBOR[time.Time](CBOROptions{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC)
	b, err := cd.Encode(now)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cd.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now) {
		t.Fatalf("got %v want %v", got, now)
	}
}

func TestProtobuf(t *testing.T) {
	cd := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	b, err := cd.Encode(wrapperspb.String("alice"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := cd.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.GetValue() != "alice" {
		t.Fatalf("got %q", got.GetValue())
	}
}

func TestRawCodecs(t *testing.T) {
	b, _ := Bytes{}.Encode([]byte{0, 1, 2})
	if got, _ := (Bytes{}).Decode(b); !reflect.DeepEqual(got, []byte{0, 1, 2}) {
		t.Fatalf("bytes: got %v", got)
	}
	s, _ := String{}.Encode("héllo")
	if got, _ := (String{}).Decode(s); got != "héllo" {
		t.Fatalf("string: got %q", got)
	}
}

func TestLimitRejectsOversized(t *testing.T) {
	cd := Limit[string]{Inner: String{}, MaxDecode: 4}
	if _, err := cd.Decode([]byte("12345")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected size error, got %v", err)
	}
	if got, err := cd.Decode([]byte("1234")); err != nil || got != "1234" {
		t.Fatalf("at limit: got %q err=%v", got, err)
	}

	unlimited := Limit[string]{Inner: String{}}
	if _, err := unlimited.Decode([]byte(strings.Repeat("x", 1<<16))); err != nil {
		t.Fatalf("unlimited decode: %v", err)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	garbage := []byte("not-a-value")
	for name, cd := range map[string]Codec[session]{
		"json": JSON[session]{},
		"gob":  Gob[session]{},
	} {
		if _, err := cd.Decode(garbage); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
	}
}

func TestLimitEncode(t *testing.T) {
	cd := Limit[string]{Inner: String{}, MaxEncode: 3}
	if _, err := cd.Encode("abcd"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if b, err := cd.Encode("abc"); err != nil || string(b) != "abc" {
		t.Fatalf("at limit: got %q err=%v", b, err)
	}
}

func TestStrictString(t *testing.T) {
	bad := string([]byte{0xff, 0xfe})
	if _, err := (String{Strict: true}).Encode(bad); err == nil {
		t.Fatal("strict encode accepted invalid UTF-8")
	}
	if _, err := (String{Strict: true}).Decode([]byte(bad)); err == nil {
		t.Fatal("strict decode accepted invalid UTF-8")
	}
	if got, err := (String{}).Decode([]byte(bad)); err != nil || got != bad {
		t.Fatalf("lenient decode: got %q err=%v", got, err)
	}
}

func TestMsgpackJSONTags(t *testing.T) {
	type user struct {
		Name string `json:"user_name"`
	}
	b, err := (Msgpack[user]{JSONTags: true}).Encode(user{Name: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := (Msgpack[map[string]any]{}).Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if m["user_name"] != "alice" {
		t.Fatalf("expected json tag as field name, got %v", m)
	}
}

func TestUnconfiguredCodecs(t *testing.T) {
	if _, err := (CBOR[int]{}).Encode(1); err == nil {
		t.Fatal("zero CBOR encoded")
	}
	if _, err := (CBOR[int]{}).Decode([]byte{0x01}); err == nil {
		t.Fatal("zero CBOR decoded")
	}
	if _, err := (Protobuf[*wrapperspb.StringValue]{}).Decode(nil); err == nil {
		t.Fatal("protobuf without constructor decoded")
	}
}

func TestCBORNestingLimit(t *testing.T) {
	cd := MustCBOR[any](CBOROptions{MaxNestedLevels: 4})
	deep := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01} // [[[[[1]]]]]
	if _, err := cd.Decode(deep); err == nil {
		t.Fatal("expected nesting limit error")
	}
}
