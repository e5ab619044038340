package envutil

import "testing"

func TestString(t *testing.T) {
	t.Setenv("TEST_STR", "  value  ")
	if got := String("TEST_STR", "def"); got != "value" {
		t.Fatalf("String = %q", got)
	}
	t.Setenv("TEST_STR", "")
	if got := String("TEST_STR", "def"); got != "def" {
		t.Fatalf("String empty = %q", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := Int("TEST_INT", 7); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	t.Setenv("TEST_INT", "not-a-number")
	if got := Int("TEST_INT", 7); got != 7 {
		t.Fatalf("Int invalid = %d", got)
	}
	t.Setenv("TEST_INT", "")
	if got := Int("TEST_INT", 7); got != 7 {
		t.Fatalf("Int empty = %d", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("TEST_LIST", "a, b ,,c")
	got := List("TEST_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("List = %v", got)
	}
	t.Setenv("TEST_LIST", " , ")
	if got := List("TEST_LIST", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("List blank = %v", got)
	}
}
