// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"github.com/camstream/mqttc/packets"
)

// Message is one application message. Outbound messages are created by the
// application; inbound ones by decoding a received PUBLISH. A message handed
// to Send must not be mutated afterwards.
type Message struct {

	// Destination is the topic the message is published to. Required.
	Destination string

	// QoS is the delivery guarantee, 0, 1 or 2.
	QoS byte

	// Retained asks the server to hold the message for future subscribers.
	Retained bool

	// Duplicate marks a redelivery. Set by the sending peer, read-only.
	Duplicate bool

	// Payload carries the message body. Text and bytes interconvert
	// losslessly through the UTF-16 transcoding helpers.
	Payload []byte
}

// NewMessage returns a message carrying an opaque byte payload.
func NewMessage(destination string, payload []byte) *Message {
	return &Message{Destination: destination, Payload: payload}
}

// NewTextMessage returns a message carrying a text payload.
func NewTextMessage(destination, text string) *Message {
	return &Message{Destination: destination, Payload: []byte(text)}
}

// PayloadString returns the payload as text, failing if it is not valid
// UTF-8.
func (m *Message) PayloadString() (string, error) {
	if err := packets.ValidateUTF8(m.Payload); err != nil {
		return "", err
	}

	return string(m.Payload), nil
}

// PayloadUTF16 returns the payload transcoded to UTF-16 code units, with
// codepoints above U+FFFF becoming surrogate pairs.
func (m *Message) PayloadUTF16() ([]uint16, error) {
	return packets.DecodeUTF16(m.Payload)
}

// SetPayloadUTF16 replaces the payload with the UTF-8 transcoding of the
// given UTF-16 code units. Unpaired surrogates fail.
func (m *Message) SetPayloadUTF16(units []uint16) error {
	b, err := packets.EncodeUTF16(units)
	if err != nil {
		return err
	}

	m.Payload = b
	return nil
}

// validate checks the message is sendable.
func (m *Message) validate() *ClientError {
	if m == nil {
		return CodeInvalidArgument.Err("nil", "message")
	}
	if m.Destination == "" {
		return CodeInvalidArgument.Err("", "destination")
	}
	if m.QoS > 2 {
		return CodeInvalidArgument.Err(m.QoS, "qos")
	}

	return nil
}

// packet builds the PUBLISH packet for the message. The packet identifier is
// assigned separately for QoS > 0.
func (m *Message) packet() *packets.PublishPacket {
	pk := &packets.PublishPacket{
		FixedHeader: packets.NewFixedHeader(packets.Publish),
		TopicName:   m.Destination,
		Payload:     m.Payload,
	}
	pk.Qos = m.QoS
	pk.Retain = m.Retained

	return pk
}

// messageFromPacket rebuilds the application message carried by a PUBLISH.
func messageFromPacket(pk *packets.PublishPacket) *Message {
	return &Message{
		Destination: pk.TopicName,
		QoS:         pk.Qos,
		Retained:    pk.Retain,
		Duplicate:   pk.Dup,
		Payload:     pk.Payload,
	}
}
