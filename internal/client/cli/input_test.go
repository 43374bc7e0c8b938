package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))
	var out bytes.Buffer

	got, err := GetSimpleText(reader, "Enter value", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
	if !strings.Contains(out.String(), "Enter value") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleTextPartialLineAtEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("partial"))
	var out bytes.Buffer

	got, err := GetSimpleText(reader, "Enter value", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "partial" {
		t.Fatalf("got %q, want %q", got, "partial")
	}
}

func TestGetMultiline(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n\nignored\n"))
	var out bytes.Buffer

	got, err := GetMultiline(reader, "Enter text", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "line one\nline two" {
		t.Fatalf("got %q", got)
	}
}

func TestGetPasswordUsesSeam(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(fd int) ([]byte, error) {
		return []byte("secret"), nil
	}

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(pw) != "secret" {
		t.Fatalf("got %q", pw)
	}
	if !strings.Contains(out.String(), "Enter password") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}
