package source

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestJSONL_YieldsObservationsInOrder(t *testing.T) {
	input := `{"id":"m1","role":"assistant","text":"Hello"}
{"id":"m1","role":"assistant","text":"Hello world"}
{"id":"m2","role":"user","text":"thanks"}
`
	src := NewJSONL(strings.NewReader(input))

	msg, err := src.Next()
	if err != nil || msg.ID != "m1" || msg.Text != "Hello" {
		t.Fatalf("unexpected first message %+v err=%v", msg, err)
	}
	msg, err = src.Next()
	if err != nil || msg.Text != "Hello world" {
		t.Fatalf("unexpected second message %+v err=%v", msg, err)
	}
	msg, err = src.Next()
	if err != nil || msg.Role != "user" {
		t.Fatalf("unexpected third message %+v err=%v", msg, err)
	}
	if _, err = src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestJSONL_SkipsMalformedLines(t *testing.T) {
	input := `not json at all
{"id":"m1","role":"assistant","text":"ok"}
{"role":"assistant","text":"missing id"}

{"id":"m2","role":"assistant","text":"also ok"}
`
	src := NewJSONL(strings.NewReader(input))

	var ids []string
	for {
		msg, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, msg.ID)
	}
	if len(ids) != 2 || ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestTextSource_YieldsOnce(t *testing.T) {
	src := NewText("m1", "hello")
	msg, err := src.Next()
	if err != nil || msg.ID != "m1" || msg.Role != RoleAssistant {
		t.Fatalf("unexpected message %+v err=%v", msg, err)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}
