package memory

import (
	"context"
	"testing"
)

func TestBrowsePublishedServices(t *testing.T) {
	reg := NewRegistry()
	reg.Publish("http://a.local:3210/x-nmos/registration/v1.2", 10)
	reg.Publish("http://b.local:3210/x-nmos/registration/v1.2", 20)

	browser := NewBrowser(reg)
	services, err := browser.Browse(context.Background())
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("Browse returned %d services, want 2", len(services))
	}
}

func TestAdvertiserRoundTrip(t *testing.T) {
	reg := NewRegistry()
	adv := NewAdvertiser(reg, "node1")

	base := map[string]string{"api_proto": "http", "api_ver": "v1.2,v1.3"}
	if err := adv.Advertise(context.Background(), base); err != nil {
		t.Fatalf("Advertise: %v", err)
	}
	if !adv.Published() {
		t.Fatalf("Published() = false after Advertise")
	}

	withVer := map[string]string{"api_proto": "http", "api_ver": "v1.2,v1.3", "ver_self": "0"}
	if err := adv.Update(context.Background(), withVer); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := adv.TXT()["ver_self"]; got != "0" {
		t.Fatalf("ver_self = %q, want 0", got)
	}

	if err := adv.Update(context.Background(), base); err != nil {
		t.Fatalf("Update (restore): %v", err)
	}
	txt := adv.TXT()
	if len(txt) != len(base) {
		t.Fatalf("TXT after restore = %v, want bit-exact %v", txt, base)
	}
	for k, v := range base {
		if txt[k] != v {
			t.Fatalf("TXT[%s] = %q, want %q", k, txt[k], v)
		}
	}

	if err := adv.Withdraw(context.Background()); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if adv.Published() {
		t.Fatalf("Published() = true after Withdraw")
	}
}
