package nmosjson

import "testing"

func TestID(t *testing.T) {
	id, err := ID([]byte(`{"id":"abc-123","label":"x"}`))
	if err != nil {
		t.Fatalf("ID returned error: %v", err)
	}
	if id != "abc-123" {
		t.Fatalf("ID = %q, want abc-123", id)
	}

	if _, err := ID([]byte(`{"label":"x"}`)); err == nil {
		t.Fatalf("ID(missing id) = nil error, want error")
	}
}

func TestSetVersion(t *testing.T) {
	out, err := SetVersion([]byte(`{"id":"a"}`), "1691234567:0")
	if err != nil {
		t.Fatalf("SetVersion returned error: %v", err)
	}
	if got := Version(out); got != "1691234567:0" {
		t.Fatalf("Version = %q, want 1691234567:0", got)
	}
}

func TestRegistrationBody(t *testing.T) {
	body, err := RegistrationBody("device", []byte(`{"id":"a","label":"x"}`))
	if err != nil {
		t.Fatalf("RegistrationBody returned error: %v", err)
	}
	if got := Get(body, "type").String(); got != "device" {
		t.Fatalf("type = %q, want device", got)
	}
	if got := Get(body, "data.id").String(); got != "a" {
		t.Fatalf("data.id = %q, want a", got)
	}
}
