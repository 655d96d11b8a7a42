package messages

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "e1",
	}
	hub.register <- client

	hub.BroadcastRoom("e1", []byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("got %q, want hello", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}

	hub.unregister <- client

	// channel is closed after unregister
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), Room: "e1"}
	b := &Client{Send: make(chan []byte, 10), Room: "e2"}
	hub.register <- a
	hub.register <- b

	hub.BroadcastRoom("e1", []byte("only room one"))

	select {
	case <-a.Send:
	case <-time.After(time.Second):
		t.Fatal("room e1 client missed broadcast")
	}

	select {
	case msg := <-b.Send:
		t.Fatalf("room e2 client received %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
