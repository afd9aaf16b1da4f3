// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package store defines durable persistence of in-flight messages, keyed by
// client identity, so that unacknowledged QoS 1 and 2 traffic survives a
// client restart.
package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/camstream/mqttc/packets"
)

// Directions a record can travel in; they segment the key space beneath an
// identity prefix.
const (
	DirSent     = "sent"
	DirReceived = "recv"
)

// SchemaVersion tags persisted records so future layouts can be told apart
// from ones the client cannot safely reason about.
const SchemaVersion = "1"

var (
	// ErrNotOpen indicates the backing database is not open for reading.
	ErrNotOpen = errors.New("store not open")

	// ErrUnsupportedPacket indicates an attempt to persist or restore a
	// record that is not PUBLISH-derived.
	ErrUnsupportedPacket = errors.New("unsupported packet type in store")

	// ErrUnknownSchema indicates a persisted record with an unrecognized
	// schema version.
	ErrUnknownSchema = errors.New("unknown stored record schema")
)

// Store is a string-keyed durable key-value boundary. Keys are grouped under
// an identity prefix so one scan recovers everything belonging to a client.
// Implementations are used from a single goroutine and need not be safe for
// concurrent use.
type Store interface {

	// Set persists a value under prefix/key.
	Set(prefix, key string, value []byte) error

	// Get returns the value stored under prefix/key, and whether it existed.
	Get(prefix, key string) ([]byte, bool, error)

	// Del removes the value stored under prefix/key. Removing an absent key
	// is not an error.
	Del(prefix, key string) error

	// Scan returns all key/value pairs under a prefix, keyed by the portion
	// of the key after the prefix.
	Scan(prefix string) (map[string][]byte, error)

	// Close releases the backing resources.
	Close() error
}

// Identity returns the key prefix scoping all records of one client, built
// from the transport identity it connects with.
func Identity(host string, port int, clientID string) string {
	return host + ":" + strconv.Itoa(port) + "/" + clientID
}

// SentKey returns the key of a sent record beneath an identity prefix.
func SentKey(id uint16) string {
	return DirSent + "/" + strconv.Itoa(int(id))
}

// ReceivedKey returns the key of a received record beneath an identity prefix.
func ReceivedKey(id uint16) string {
	return DirReceived + "/" + strconv.Itoa(int(id))
}

// SplitKey splits a scanned key into direction and message identifier.
func SplitKey(key string) (dir string, id uint16, err error) {
	dir, rest, ok := strings.Cut(key, "/")
	if !ok || (dir != DirSent && dir != DirReceived) {
		return "", 0, fmt.Errorf("malformed store key %q", key)
	}

	v, err := strconv.ParseUint(rest, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("malformed store key %q: %w", key, err)
	}

	return dir, uint16(v), nil
}

// Record is a storable representation of one in-flight message.
type Record struct {
	Version  string `json:"version"`          // schema version tag
	T        byte   `json:"type"`             // packet type; only PUBLISH is legal
	PacketID uint16 `json:"packet_id"`        // the message identifier
	Qos      byte   `json:"qos"`              // delivery guarantee of the message
	Topic    string `json:"topic"`            // destination name
	Retain   bool   `json:"retain,omitempty"` // retained flag
	Dup      bool   `json:"dup,omitempty"`    // duplicate flag
	Payload  string `json:"payload"`          // payload bytes, hex-encoded
	Pubrec   bool   `json:"pubrec,omitempty"` // sent QoS 2 only: PUBREC received
	Seq      uint64 `json:"seq,omitempty"`    // sent only: original send order
}

// NewRecord builds a storable record from a PUBLISH packet. Seq and Pubrec
// are meaningful for sent records only and are left zeroed for received ones.
func NewRecord(pk *packets.PublishPacket, seq uint64, pubrec bool) Record {
	return Record{
		Version:  SchemaVersion,
		T:        packets.Publish,
		PacketID: pk.PacketID,
		Qos:      pk.Qos,
		Topic:    pk.TopicName,
		Retain:   pk.Retain,
		Dup:      pk.Dup,
		Payload:  hex.EncodeToString(pk.Payload),
		Pubrec:   pubrec,
		Seq:      seq,
	}
}

// Validate reports whether the record is one this client can safely restore.
func (r Record) Validate() error {
	if r.Version != SchemaVersion {
		return fmt.Errorf("%w: %q", ErrUnknownSchema, r.Version)
	}

	if r.T != packets.Publish {
		return fmt.Errorf("%w: %s", ErrUnsupportedPacket, packets.Names[r.T])
	}

	return nil
}

// Packet reconstructs the PUBLISH packet captured by the record.
func (r Record) Packet() (*packets.PublishPacket, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	payload, err := hex.DecodeString(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("stored payload: %w", err)
	}

	pk := &packets.PublishPacket{
		FixedHeader: packets.NewFixedHeader(packets.Publish),
		TopicName:   r.Topic,
		PacketID:    r.PacketID,
		Payload:     payload,
	}
	pk.Qos = r.Qos
	pk.Retain = r.Retain
	pk.Dup = r.Dup

	return pk, nil
}

// MarshalBinary encodes the record into a json string.
func (r Record) MarshalBinary() (data []byte, err error) {
	return json.Marshal(r)
}

// UnmarshalBinary decodes a json string into the record.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, r)
}
