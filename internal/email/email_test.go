package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendBookingConfirmation(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "hello@gabiyoga.test", WithAPIURL(server.URL))
	if err := client.SendBookingConfirmation("alice@example.com", "Arm Balances Workshop", "WS-ABC123"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want test-token", gotToken)
	}
	if received.To != "alice@example.com" {
		t.Errorf("To = %q", received.To)
	}
	if !strings.Contains(received.TextBody, "WS-ABC123") {
		t.Error("text body should include the booking reference")
	}
}

func TestSendMembershipReceipt(t *testing.T) {
	var received postmarkEmail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("tok", "hello@gabiyoga.test", WithAPIURL(server.URL))
	if err := client.SendMembershipReceipt("bob@example.com", 49.00, "month"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(received.TextBody, "$49.00") {
		t.Errorf("text body %q should include the amount", received.TextBody)
	}
}

func TestBookingConfirmationEscapesTitle(t *testing.T) {
	var received postmarkEmail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("tok", "hello@gabiyoga.test", WithAPIURL(server.URL))
	if err := client.SendBookingConfirmation("a@b.c", `<b>Arm & Leg</b>`, "WS-X"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if strings.Contains(received.HtmlBody, "<b>") {
		t.Errorf("html body %q should not contain raw markup from the title", received.HtmlBody)
	}
	if !strings.Contains(received.HtmlBody, "&lt;b&gt;Arm &amp; Leg&lt;/b&gt;") {
		t.Errorf("html body %q should contain the escaped title", received.HtmlBody)
	}
	if !strings.Contains(received.TextBody, "<b>Arm & Leg</b>") {
		t.Errorf("text body %q should keep the title verbatim", received.TextBody)
	}
}

func TestUnconfiguredClientErrors(t *testing.T) {
	client := NewClient("", "hello@gabiyoga.test")
	if client.Configured() {
		t.Error("empty token should not report configured")
	}
	if err := client.SendBookingConfirmation("a@b.c", "x", "y"); err == nil {
		t.Error("expected error from unconfigured client")
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad", "hello@gabiyoga.test", WithAPIURL(server.URL))
	if err := client.SendMembershipReceipt("a@b.c", 49, "month"); err == nil {
		t.Error("expected error for API failure")
	}
}
