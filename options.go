// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"crypto/tls"
	"strconv"
	"time"

	"log/slog"

	"github.com/rs/xid"

	"github.com/camstream/mqttc/packets"
	"github.com/camstream/mqttc/store"
	"github.com/camstream/mqttc/store/memory"
	"github.com/camstream/mqttc/transport"
)

const (
	// defaultPort is the port dialed when none is configured.
	defaultPort = 1883

	// maxClientIDLength is the longest client identifier the v3.1 wire
	// format guarantees servers accept.
	maxClientIDLength = 23

	// defaultMaxInflight is the default cap on concurrently pending
	// message identifiers.
	defaultMaxInflight = 65535

	// defaultConnectTimeout bounds connection establishment.
	defaultConnectTimeout = 30 * time.Second

	// defaultKeepAlive is the default keepalive interval.
	defaultKeepAlive = 60 * time.Second
)

// ClientOptions contains configurable options for a client.
type ClientOptions struct {

	// Host is the broker host name. Required.
	Host string

	// Port is the broker port. Defaults to 1883.
	Port int

	// ClientID identifies the client to the broker and scopes its durable
	// state. At most 23 characters. A random id is generated when empty.
	ClientID string

	// Dialer establishes transport connections. Defaults to a websocket
	// dialer.
	Dialer transport.Dialer

	// Store persists in-flight messages across restarts. Defaults to a
	// volatile in-memory store.
	Store store.Store

	// Logger specifies a custom configured implementation of log/slog.
	Logger *slog.Logger

	// Clock schedules keepalive and timeout timers. Overridden in tests.
	Clock Clock

	// MaxInflight caps the number of concurrently pending message
	// identifiers. Defaults to 65535.
	MaxInflight int

	// OnMessage is invoked for every application message delivered by the
	// broker.
	OnMessage func(*Message)

	// OnDelivered is invoked once per sent message when delivery completes:
	// after the write for QoS 0, after the final acknowledgement otherwise.
	OnDelivered func(*Message)

	// OnConnectionLost is invoked when an established connection ends, with
	// CodeOK for a requested disconnect.
	OnConnectionLost func(*ClientError)
}

// ensureDefaults fills in any default values.
func (o *ClientOptions) ensureDefaults() {
	if o.Port == 0 {
		o.Port = defaultPort
	}
	if o.ClientID == "" {
		o.ClientID = "mc" + xid.New().String()
	}
	if o.Dialer == nil {
		o.Dialer = transport.NewWebsocketDialer(nil)
	}
	if o.Store == nil {
		o.Store = memory.New()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.MaxInflight == 0 {
		o.MaxInflight = defaultMaxInflight
	}
}

// validate checks the options after defaults were applied.
func (o *ClientOptions) validate() *ClientError {
	if o.Host == "" {
		return CodeInvalidArgument.Err("", "host")
	}
	if o.Port < 1 || o.Port > 65535 {
		return CodeInvalidArgument.Err(o.Port, "port")
	}
	if len(o.ClientID) > maxClientIDLength {
		return CodeInvalidArgument.Err(o.ClientID, "clientId")
	}
	if err := packets.ValidateUTF8([]byte(o.ClientID)); err != nil {
		return CodeInvalidArgument.Err(o.ClientID, "clientId")
	}
	if o.MaxInflight < 1 || o.MaxInflight > 65535 {
		return CodeInvalidArgument.Err(o.MaxInflight, "maxInflight")
	}

	return nil
}

// addr returns the configured host:port.
func (o *ClientOptions) addr() string {
	return o.Host + ":" + strconv.Itoa(o.Port)
}

// ConnectOptions contains the options of one connect attempt. Use
// NewConnectOptions to get the defaults; the zero value is not a default
// configuration.
type ConnectOptions struct {

	// Timeout bounds connection establishment per host. Default 30s.
	Timeout time.Duration

	// Username and Password are sent in CONNECT when non-empty.
	Username string
	Password string

	// WillMessage, when set, is published by the broker on the client's
	// behalf if it disconnects abnormally. It must carry a destination and
	// a payload representable as a string.
	WillMessage *Message

	// KeepAlive is the liveness interval. Zero disables keepalive.
	// Default 60s.
	KeepAlive time.Duration

	// CleanSession discards all durable state of this client identity
	// when the broker answers the CONNECT. Default true.
	CleanSession bool

	// TLSConfig, when set, selects a secure transport for dialers that
	// support it.
	TLSConfig *tls.Config

	// Hosts and Ports, when set, are tried in order instead of the
	// configured host/port. They must be parallel arrays of equal,
	// non-zero length.
	Hosts []string
	Ports []int

	// InvocationContext is handed back untouched as the first argument of
	// OnSuccess and OnFailure.
	InvocationContext any

	// OnSuccess is invoked once the connection is established.
	OnSuccess func(ctx any)

	// OnFailure is invoked when establishment fails on every host.
	OnFailure func(ctx any, err *ClientError)
}

// NewConnectOptions returns connect options with the defaults applied.
func NewConnectOptions() *ConnectOptions {
	return &ConnectOptions{
		Timeout:      defaultConnectTimeout,
		KeepAlive:    defaultKeepAlive,
		CleanSession: true,
	}
}

// validate checks the options before any protocol action is taken.
func (o *ConnectOptions) validate() *ClientError {
	if o.Timeout <= 0 {
		return CodeInvalidArgument.Err(o.Timeout, "timeout")
	}
	if o.KeepAlive < 0 {
		return CodeInvalidArgument.Err(o.KeepAlive, "keepAliveInterval")
	}

	if len(o.Hosts) != len(o.Ports) {
		return CodeInvalidArgument.Err(len(o.Ports), "ports")
	}
	for i, h := range o.Hosts {
		if h == "" {
			return CodeInvalidArgument.Err("", "hosts")
		}
		if o.Ports[i] < 1 || o.Ports[i] > 65535 {
			return CodeInvalidArgument.Err(o.Ports[i], "ports")
		}
	}

	if o.WillMessage != nil {
		if err := o.WillMessage.validate(); err != nil {
			return err
		}
		if _, err := o.WillMessage.PayloadString(); err != nil {
			return CodeInvalidArgument.Err("willMessage payload", "string")
		}
	}

	return nil
}

// hostList returns the ordered host:port addresses of the attempt.
func (o *ConnectOptions) hostList(fallback string) []string {
	if len(o.Hosts) == 0 {
		return []string{fallback}
	}

	addrs := make([]string, len(o.Hosts))
	for i, h := range o.Hosts {
		addrs[i] = h + ":" + strconv.Itoa(o.Ports[i])
	}

	return addrs
}

// SubscribeOptions contains the options of one subscribe call.
type SubscribeOptions struct {

	// QoS is the requested quality of service for the subscription.
	QoS byte

	// Timeout, when non-zero, bounds the wait for the acknowledgement. A
	// timed-out call fails exactly once; a later acknowledgement is dropped.
	Timeout time.Duration

	// InvocationContext is handed back untouched as the first argument of
	// OnSuccess and OnFailure.
	InvocationContext any

	// OnSuccess is invoked with the granted QoS.
	OnSuccess func(ctx any, grantedQoS byte)

	// OnFailure is invoked if the call times out.
	OnFailure func(ctx any, err *ClientError)
}

// validate checks the options before any protocol action is taken.
func (o *SubscribeOptions) validate() *ClientError {
	if o.QoS > 2 {
		return CodeInvalidArgument.Err(o.QoS, "qos")
	}
	if o.Timeout < 0 {
		return CodeInvalidArgument.Err(o.Timeout, "timeout")
	}

	return nil
}

// UnsubscribeOptions contains the options of one unsubscribe call.
type UnsubscribeOptions struct {

	// Timeout, when non-zero, bounds the wait for the acknowledgement.
	Timeout time.Duration

	// InvocationContext is handed back untouched as the first argument of
	// OnSuccess and OnFailure.
	InvocationContext any

	// OnSuccess is invoked when the acknowledgement arrives.
	OnSuccess func(ctx any)

	// OnFailure is invoked if the call times out.
	OnFailure func(ctx any, err *ClientError)
}

// validate checks the options before any protocol action is taken.
func (o *UnsubscribeOptions) validate() *ClientError {
	if o.Timeout < 0 {
		return CodeInvalidArgument.Err(o.Timeout, "timeout")
	}

	return nil
}
