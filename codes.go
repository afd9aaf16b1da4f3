// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"fmt"
	"strconv"
	"strings"
)

// Code pairs a stable numeric error code with a message template. Templates
// carry positional substitutions written as {0}, {1} and so on.
type Code struct {
	Code   int
	Format string
}

// The error codes surfaced to callers. The numeric values are part of the
// public contract and must not be renumbered.
var (
	CodeOK                   = Code{0, "OK"}
	CodeConnectTimeout       = Code{1, "Connect timed out"}
	CodeSubscribeTimeout     = Code{2, "Subscribe timed out"}
	CodeUnsubscribeTimeout   = Code{3, "Unsubscribe timed out"}
	CodePingTimeout          = Code{4, "No ping response received within keepalive interval"}
	CodeInternal             = Code{5, "Internal error: {0}"}
	CodeConnack              = Code{6, "Bad Connack return code: {0} {1}"}
	CodeSocketError          = Code{7, "Socket error: {0}"}
	CodeSocketClose          = Code{8, "Socket closed"}
	CodeMalformedUTF         = Code{9, "Malformed UTF data: {0}"}
	CodeUnsupported          = Code{10, "{0} is not supported by this environment"}
	CodeInvalidState         = Code{11, "Invalid state: {0}"}
	CodeInvalidType          = Code{12, "Invalid type {0} for {1}"}
	CodeInvalidArgument      = Code{13, "Invalid argument {0} for {1}"}
	CodeUnsupportedOperation = Code{14, "Unsupported operation: {0}"}
	CodeInvalidStoredData    = Code{15, "Invalid data in durable store: {0}"}
	CodeInvalidMQTTType      = Code{16, "Invalid MQTT message type: {0}"}
	CodeTooManyInflight      = Code{17, "Too many messages in flight: limit is {0}"}
)

// Err builds a ClientError from the code, substituting the positional
// arguments into the message template.
func (c Code) Err(args ...any) *ClientError {
	msg := c.Format
	for i, a := range args {
		msg = strings.ReplaceAll(msg, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}

	return &ClientError{Code: c.Code, Message: msg}
}

// Is reports whether the error carries this code.
func (c Code) Is(err error) bool {
	ce, ok := err.(*ClientError)
	return ok && ce != nil && ce.Code == c.Code
}

// ClientError is an error with a stable numeric code and a formatted message.
type ClientError struct {
	Code    int
	Message string
}

// Error returns the formatted message prefixed with its code.
func (e *ClientError) Error() string {
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}
