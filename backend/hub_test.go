package main

import (
	"bytes"
	"testing"
	"time"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	if hub.HasClients() {
		t.Fatalf("expected no clients on a fresh hub")
	}
	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(client)
	if !hub.HasClients() {
		t.Fatalf("expected client after register")
	}
	hub.Unregister(client)
	if hub.HasClients() {
		t.Fatalf("expected no clients after unregister")
	}
	if _, open := <-client.send; open {
		t.Fatalf("expected send channel closed by unregister")
	}
	// Unregistering twice must not panic on the closed channel.
	hub.Unregister(client)
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go hub.Run(done)
	defer close(done)

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.Register(client)
	hub.broadcastStatus <- StatusResponse{Status: "running"}

	select {
	case data := <-client.send:
		if !bytes.Contains(data, []byte(`"status"`)) {
			t.Fatalf("unexpected broadcast payload: %s", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast never reached the client")
	}
}
