package storage

import (
	"testing"
)

type sample struct {
	ID   int    `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

func TestJSONSerializerRoundtrip(t *testing.T) {
	s := NewJSONSerializer()

	in := sample{ID: 7, Name: "alice"}
	data, err := s.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out sample
	if err := s.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("Expected %+v, got %+v", in, out)
	}
}

func TestMsgpackSerializerRoundtrip(t *testing.T) {
	s := NewMsgpackSerializer()

	in := sample{ID: 7, Name: "alice"}
	data, err := s.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out sample
	if err := s.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("Expected %+v, got %+v", in, out)
	}
}

func TestJSONUnmarshalRejectsGarbage(t *testing.T) {
	s := NewJSONSerializer()

	var out sample
	if err := s.Unmarshal([]byte("{not json"), &out); err == nil {
		t.Fatal("Unmarshal should fail on malformed input")
	}
}

func TestGetSerializer(t *testing.T) {
	if _, err := GetSerializer(""); err != nil {
		t.Errorf("Empty format should default to JSON: %v", err)
	}
	if _, err := GetSerializer("json"); err != nil {
		t.Errorf("json should be supported: %v", err)
	}
	if _, err := GetSerializer("msgpack"); err != nil {
		t.Errorf("msgpack should be supported: %v", err)
	}
	if _, err := GetSerializer("xml"); err == nil {
		t.Error("Unknown format should be rejected")
	}
}
