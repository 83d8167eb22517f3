package livekit

import (
	"context"
	"strings"
	"testing"
)

func TestMockClient_EnsureRoomIsStable(t *testing.T) {
	c := NewMockClient("devkey", "secret-secret-secret-secret-secret")

	first, err := c.EnsureRoom(context.Background(), "standup-core", nil)
	if err != nil {
		t.Fatalf("EnsureRoom() error = %v", err)
	}
	second, err := c.EnsureRoom(context.Background(), "standup-core", nil)
	if err != nil {
		t.Fatalf("EnsureRoom() error = %v", err)
	}
	if first.SID != second.SID {
		t.Fatalf("room recreated: %s vs %s", first.SID, second.SID)
	}
}

func TestMockClient_SendDataRecordsPackets(t *testing.T) {
	c := NewMockClient("devkey", "secret-secret-secret-secret-secret")

	if err := c.SendData(context.Background(), "standup-core", "standup.control", []byte(`{"type":"listen"}`)); err != nil {
		t.Fatalf("SendData() error = %v", err)
	}
	packets := c.Packets()
	if len(packets) != 1 || packets[0].Topic != "standup.control" || packets[0].Room != "standup-core" {
		t.Fatalf("packets = %+v", packets)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.SendData(ctx, "standup-core", "standup.control", nil); err == nil {
		t.Fatalf("SendData() with cancelled context should fail")
	}
}

func TestGenerateToken(t *testing.T) {
	c := NewClient("ws://localhost:7880", "devkey", "secret-secret-secret-secret-secret", true)

	token, err := c.GenerateToken("alice", "standup-core", "Alice", nil)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token is not a JWT: %q", token)
	}
}
