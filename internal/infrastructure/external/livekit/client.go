package livekit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"google.golang.org/protobuf/proto"
)

// Client wraps the LiveKit operations a standup room needs
type Client interface {
	EnsureRoom(ctx context.Context, name string, options *RoomOptions) (*RoomInfo, error)
	GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error)
	SendData(ctx context.Context, roomName, topic string, data []byte) error
}

// RoomOptions holds options for creating a standup room
type RoomOptions struct {
	MaxParticipants  int32
	EmptyTimeout     int32 // seconds
	DepartureTimeout int32 // seconds
	Metadata         string
}

// TokenOptions holds grants for a participant token
type TokenOptions struct {
	ValidFor       time.Duration
	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
}

// RoomInfo holds room information
type RoomInfo struct {
	Name         string
	SID          string
	CreationTime time.Time
	Metadata     string
}

func defaultRoomOptions() *RoomOptions {
	return &RoomOptions{
		MaxParticipants:  20,
		EmptyTimeout:     600,
		DepartureTimeout: 60,
	}
}

func defaultTokenOptions() *TokenOptions {
	return &TokenOptions{
		ValidFor:       2 * time.Hour,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	}
}

// realClient talks to a LiveKit server
type realClient struct {
	roomClient *lksdk.RoomServiceClient
	apiKey     string
	apiSecret  string
}

// NewClient creates a LiveKit client, or an in-memory one when useMock is set
func NewClient(url, apiKey, apiSecret string, useMock bool) Client {
	if useMock {
		return NewMockClient(apiKey, apiSecret)
	}
	return &realClient{
		roomClient: lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		apiKey:     apiKey,
		apiSecret:  apiSecret,
	}
}

// EnsureRoom creates the room; LiveKit returns the existing room when the name is taken
func (c *realClient) EnsureRoom(ctx context.Context, name string, options *RoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = defaultRoomOptions()
	}

	room, err := c.roomClient.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             name,
		MaxParticipants:  uint32(options.MaxParticipants),
		EmptyTimeout:     uint32(options.EmptyTimeout),
		DepartureTimeout: uint32(options.DepartureTimeout),
		Metadata:         options.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &RoomInfo{
		Name:         room.Name,
		SID:          room.Sid,
		CreationTime: time.Unix(room.CreationTime, 0),
		Metadata:     room.Metadata,
	}, nil
}

// GenerateToken generates an access token for joining a room
func (c *realClient) GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error) {
	return signToken(c.apiKey, c.apiSecret, identity, roomName, participantName, options)
}

// SendData broadcasts a reliable data packet to every participant in the room
func (c *realClient) SendData(ctx context.Context, roomName, topic string, data []byte) error {
	_, err := c.roomClient.SendData(ctx, &livekit.SendDataRequest{
		Room:  roomName,
		Data:  data,
		Kind:  livekit.DataPacket_RELIABLE,
		Topic: proto.String(topic),
	})
	if err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}
	return nil
}

func signToken(apiKey, apiSecret, identity, roomName, participantName string, options *TokenOptions) (string, error) {
	if options == nil {
		options = defaultTokenOptions()
	}

	at := auth.NewAccessToken(apiKey, apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           roomName,
		CanPublish:     &options.CanPublish,
		CanSubscribe:   &options.CanSubscribe,
		CanPublishData: &options.CanPublishData,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(participantName).
		SetValidFor(options.ValidFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// Packet is a data message captured by the mock client
type Packet struct {
	Room  string
	Topic string
	Data  []byte
}

// MockClient keeps rooms and packets in memory
type MockClient struct {
	apiKey    string
	apiSecret string

	mu      sync.Mutex
	rooms   map[string]*RoomInfo
	packets []Packet
}

// NewMockClient creates an in-memory client
func NewMockClient(apiKey, apiSecret string) *MockClient {
	return &MockClient{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		rooms:     make(map[string]*RoomInfo),
	}
}

// EnsureRoom (mock) returns the same room for repeated names
func (m *MockClient) EnsureRoom(_ context.Context, name string, options *RoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = defaultRoomOptions()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[name]; ok {
		return room, nil
	}
	room := &RoomInfo{
		Name:         name,
		SID:          "mock-sid-" + uuid.NewString(),
		CreationTime: time.Now(),
		Metadata:     options.Metadata,
	}
	m.rooms[name] = room
	return room, nil
}

// GenerateToken (mock) signs with the configured keys so clients can decode it
func (m *MockClient) GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error) {
	return signToken(m.apiKey, m.apiSecret, identity, roomName, participantName, options)
}

// SendData (mock) records the packet
func (m *MockClient) SendData(ctx context.Context, roomName, topic string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.packets = append(m.packets, Packet{Room: roomName, Topic: topic, Data: append([]byte(nil), data...)})
	return nil
}

// Packets returns a copy of everything sent so far
func (m *MockClient) Packets() []Packet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Packet(nil), m.packets...)
}
