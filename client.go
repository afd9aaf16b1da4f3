// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package mqttc implements an MQTT v3.1 client. Messages published with a
// QoS above zero are persisted in a durable store and their handshakes are
// resumed across connections and client restarts.
package mqttc

import (
	"bytes"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/camstream/mqttc/packets"
	"github.com/camstream/mqttc/store"
	"github.com/camstream/mqttc/transport"
)

// Client connection states.
const (
	stateDisconnected int32 = iota
	stateConnecting
	stateConnected
)

// pendingCall is one subscribe or unsubscribe awaiting its acknowledgement.
// A call completes exactly once: either the acknowledgement arrives, or the
// timeout fires and a late acknowledgement is dropped.
type pendingCall struct {
	id       uint16
	ctx      any
	deadline *deadline

	onSubscribed   func(ctx any, grantedQoS byte)
	onUnsubscribed func(ctx any)
	onFailure      func(ctx any, err *ClientError)
}

func (p *pendingCall) fail(err *ClientError) {
	if p.onFailure != nil {
		p.onFailure(p.ctx, err)
	}
}

// Client is an MQTT v3.1 client. Its methods may be called from any
// goroutine, including from within its own callbacks.
//
// All protocol work runs on a single internal loop; callbacks are invoked
// from that loop and must not block.
type Client struct {
	opts     ClientOptions
	log      *slog.Logger
	store    store.Store
	identity string
	inflight *inflight
	trace    *traceLog

	// op queue feeding the engine loop
	opMu sync.Mutex
	ops  []func()
	wake chan struct{}
	done chan struct{}

	state atomic.Int32

	// loop-owned connection state
	epoch     uint64
	conn      transport.Conn
	keepalive *keepalive
	calls     map[uint16]*pendingCall

	// loop-owned state of the running connect attempt
	connectOpts  *ConnectOptions
	hosts        []string
	hostIndex    int
	dialDeadline *deadline
	everUp       bool
}

// New returns a client for the given options, restoring any in-flight
// messages its identity left in the durable store. The returned client must
// be released with Close.
func New(opts ClientOptions) (*Client, error) {
	opts.ensureDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		opts:     opts,
		log:      opts.Logger.With("client", opts.ClientID),
		store:    opts.Store,
		identity: store.Identity(opts.Host, opts.Port, opts.ClientID),
		inflight: newInflight(opts.MaxInflight),
		trace:    newTraceLog(),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		calls:    map[uint16]*pendingCall{},
	}

	if err := c.restore(); err != nil {
		return nil, err
	}

	go c.run()

	return c, nil
}

// restore reloads the in-flight messages persisted under the client identity.
func (c *Client) restore() error {
	entries, err := c.store.Scan(c.identity)
	if err != nil {
		return CodeInvalidStoredData.Err(err)
	}

	for key, raw := range entries {
		dir, _, err := store.SplitKey(key)
		if err != nil {
			return CodeInvalidStoredData.Err(err)
		}

		var rec store.Record
		if err := rec.UnmarshalBinary(raw); err != nil {
			return CodeInvalidStoredData.Err(err)
		}

		pk, err := rec.Packet()
		if err != nil {
			return CodeInvalidStoredData.Err(err)
		}

		switch dir {
		case store.DirSent:
			c.inflight.restoreSent(pk, rec.Pubrec, rec.Seq)
		case store.DirReceived:
			c.inflight.restoreRecv(pk)
		}
	}

	sent, recv := c.inflight.lens()
	if sent > 0 || recv > 0 {
		c.log.Info("restored in-flight messages", "sent", sent, "received", recv)
	}

	return nil
}

// run is the engine loop. It owns all connection state; everything else posts
// operations to it.
func (c *Client) run() {
	for {
		select {
		case <-c.done:
			return
		case <-c.wake:
			for {
				c.opMu.Lock()
				if len(c.ops) == 0 {
					c.opMu.Unlock()
					break
				}
				op := c.ops[0]
				c.ops = c.ops[1:]
				c.opMu.Unlock()

				op()
			}
		}
	}
}

// enqueueOp posts an operation to the engine loop. Safe to call from the loop
// itself; the operation then runs after the current one returns.
func (c *Client) enqueueOp(op func()) {
	c.opMu.Lock()
	c.ops = append(c.ops, op)
	c.opMu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// enqueueEpochOp posts an operation that only runs if the connection epoch is
// still current, discarding events from torn-down connections and timers.
func (c *Client) enqueueEpochOp(epoch uint64, op func()) {
	c.enqueueOp(func() {
		if c.epoch == epoch {
			op()
		}
	})
}

// IsConnected reports whether the client currently has an established
// connection.
func (c *Client) IsConnected() bool {
	return c.state.Load() == stateConnected
}

// Close releases the client and its durable store. A connected client is
// dropped without a DISCONNECT packet; call Disconnect first for an orderly
// shutdown.
func (c *Client) Close() error {
	c.enqueueOp(func() {
		if c.state.Load() != stateDisconnected {
			c.teardown(CodeSocketClose.Err())
		}
		if err := c.store.Close(); err != nil {
			c.log.Warn("closing store failed", "error", err)
		}
		close(c.done)
	})

	return nil
}

// StartTrace begins recording protocol activity into the trace buffer.
func (c *Client) StartTrace() {
	c.trace.start()
}

// StopTrace stops recording. Records already captured remain readable.
func (c *Client) StopTrace() {
	c.trace.stop()
}

// TraceLog returns the captured trace records, oldest first.
func (c *Client) TraceLog() []TraceRecord {
	return c.trace.snapshot()
}

// Connect starts establishing a connection. It returns immediately; the
// outcome is reported through the options callbacks. Only one connection may
// be in progress or established at a time.
func (c *Client) Connect(opts *ConnectOptions) error {
	if opts == nil {
		opts = NewConnectOptions()
	}
	if err := opts.validate(); err != nil {
		return err
	}

	if opts.TLSConfig != nil {
		if _, ok := c.opts.Dialer.(transport.TLSSetter); !ok {
			return CodeUnsupported.Err("TLS on this transport")
		}
	}

	if !c.state.CompareAndSwap(stateDisconnected, stateConnecting) {
		return CodeInvalidState.Err("already connected")
	}

	c.enqueueOp(func() {
		c.connectOpts = opts
		if opts.TLSConfig != nil {
			c.opts.Dialer.(transport.TLSSetter).SetTLSConfig(opts.TLSConfig)
		}
		c.hosts = opts.hostList(c.opts.addr())
		c.hostIndex = 0
		c.everUp = false

		c.dialNext()
	})

	return nil
}

// purgeSession discards all durable and in-memory in-flight state of the
// client identity.
func (c *Client) purgeSession() error {
	entries, err := c.store.Scan(c.identity)
	if err != nil {
		return err
	}

	for key := range entries {
		if err := c.store.Del(c.identity, key); err != nil {
			return err
		}
	}

	c.inflight.clear()
	return nil
}

// dialNext starts the transport dial of the current host of the attempt.
func (c *Client) dialNext() {
	c.epoch++
	ep := c.epoch
	addr := c.hosts[c.hostIndex]

	c.trace.add("dial", addr)
	c.log.Debug("dialing", "address", addr, "protocol", c.opts.Dialer.Protocol())

	c.dialDeadline = newDeadline(c.opts.Clock, c.connectOpts.Timeout,
		func(op func()) { c.enqueueEpochOp(ep, op) },
		func() {
			c.teardown(CodeConnectTimeout.Err())
		})

	go func() {
		conn, err := c.opts.Dialer.Dial(addr, &connHandler{c: c, epoch: ep})
		c.enqueueEpochOp(ep, func() {
			c.onDialDone(conn, err)
		})
	}()
}

// onDialDone continues the connect attempt once the transport dial returns.
func (c *Client) onDialDone(conn transport.Conn, err error) {
	if c.state.Load() != stateConnecting {
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		c.teardown(CodeSocketError.Err(err))
		return
	}

	c.conn = conn

	pk := packets.NewConnectPacket(c.opts.ClientID)
	pk.CleanSession = c.connectOpts.CleanSession
	pk.Keepalive = uint16(c.connectOpts.KeepAlive.Seconds())
	if c.connectOpts.Username != "" {
		pk.UsernameFlag = true
		pk.Username = c.connectOpts.Username
	}
	if c.connectOpts.Password != "" {
		pk.PasswordFlag = true
		pk.Password = c.connectOpts.Password
	}
	if will := c.connectOpts.WillMessage; will != nil {
		pk.WillFlag = true
		pk.WillTopic = will.Destination
		pk.WillMessage = will.Payload
		pk.WillQos = will.QoS
		pk.WillRetain = will.Retained
	}

	c.write(pk)
}

// connHandler adapts transport events onto the engine loop, stamped with the
// epoch of the connection they belong to.
type connHandler struct {
	c     *Client
	epoch uint64
}

func (h *connHandler) OnMessage(b []byte) {
	h.c.enqueueEpochOp(h.epoch, func() {
		h.c.handleFrame(b)
	})
}

func (h *connHandler) OnError(err error) {
	h.c.enqueueEpochOp(h.epoch, func() {
		h.c.teardown(CodeSocketError.Err(err))
	})
}

func (h *connHandler) OnClose() {
	h.c.enqueueEpochOp(h.epoch, func() {
		h.c.teardown(CodeSocketClose.Err())
	})
}

// write encodes and sends one packet on the current connection.
func (c *Client) write(pk packets.Packet) {
	var buf bytes.Buffer
	if err := pk.Encode(&buf); err != nil {
		c.teardown(CodeInternal.Err(err))
		return
	}

	c.trace.add("send", pk)

	if err := c.conn.Send(buf.Bytes()); err != nil {
		c.teardown(CodeSocketError.Err(err))
		return
	}

	if c.keepalive != nil {
		c.keepalive.noteSent()
	}
}

// handleFrame decodes one inbound control packet and dispatches it. Any
// inbound traffic counts as proof of broker liveness.
func (c *Client) handleFrame(b []byte) {
	pk, err := packets.Decode(b)
	if err != nil {
		c.teardown(CodeInternal.Err(err))
		return
	}

	c.trace.add("recv", pk)

	if c.keepalive != nil {
		c.keepalive.noteRecv()
	}

	switch pk := pk.(type) {
	case *packets.ConnackPacket:
		c.onConnack(pk)
	case *packets.PublishPacket:
		c.onPublish(pk)
	case *packets.PubackPacket:
		c.onPuback(pk.PacketID)
	case *packets.PubrecPacket:
		c.onPubrec(pk.PacketID)
	case *packets.PubrelPacket:
		c.onPubrel(pk.PacketID)
	case *packets.PubcompPacket:
		c.onPubcomp(pk.PacketID)
	case *packets.SubackPacket:
		c.onSuback(pk)
	case *packets.UnsubackPacket:
		c.onUnsuback(pk.PacketID)
	case *packets.PingrespPacket:
		// proof of life was already recorded above
	default:
		c.teardown(CodeInvalidMQTTType.Err(packets.Names[b[0]>>4]))
	}
}

// onConnack completes or fails the running connect attempt.
func (c *Client) onConnack(pk *packets.ConnackPacket) {
	if c.state.Load() != stateConnecting {
		c.log.Debug("ignoring CONNACK outside connect")
		return
	}

	c.dialDeadline.cancel()
	c.dialDeadline = nil

	// the session starts here, accepted or not
	if c.connectOpts.CleanSession {
		if err := c.purgeSession(); err != nil {
			c.log.Warn("clean session purge failed", "error", err)
		}
	}

	if pk.ReturnCode != packets.Accepted {
		c.teardown(CodeConnack.Err(pk.ReturnCode, packets.ConnackReasons[pk.ReturnCode]))
		return
	}

	c.state.Store(stateConnected)
	c.everUp = true

	if ka := c.connectOpts.KeepAlive; ka > 0 {
		ep := c.epoch
		c.keepalive = newKeepalive(c.opts.Clock, ka,
			func(op func()) { c.enqueueEpochOp(ep, op) },
			func() { c.write(&packets.PingreqPacket{FixedHeader: packets.NewFixedHeader(packets.Pingreq)}) },
			func() { c.teardown(CodePingTimeout.Err()) })
	}

	c.log.Info("connected", "address", c.hosts[c.hostIndex], "session_present", pk.SessionPresent)

	opts := c.connectOpts
	c.resume()

	if c.state.Load() == stateConnected && opts.OnSuccess != nil {
		opts.OnSuccess(opts.InvocationContext)
	}
}

// resume retransmits every pending outbound message in its original send
// order. A message whose PUBREC already arrived resumes at PUBREL and is
// never re-sent as a PUBLISH.
func (c *Client) resume() {
	for _, e := range c.inflight.sentOrdered() {
		if e.pubrec {
			c.write(&packets.PubrelPacket{
				FixedHeader: packets.NewFixedHeader(packets.Pubrel),
				PacketID:    e.packet.PacketID,
			})
		} else {
			e.packet.Dup = true
			c.persistSent(e)
			c.write(e.packet)
		}

		if c.state.Load() != stateConnected {
			return // the write tore the connection down
		}
	}
}

// teardown unwinds the current connection. While a connect attempt has hosts
// left it moves on to the next one; otherwise the terminal outcome is
// reported through the appropriate callback.
func (c *Client) teardown(cerr *ClientError) {
	c.trace.add("teardown", cerr)

	c.epoch++
	c.dialDeadline.cancel()
	c.dialDeadline = nil

	if c.keepalive != nil {
		c.keepalive.stop()
		c.keepalive = nil
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	for id, call := range c.calls {
		call.deadline.cancel()
		delete(c.calls, id)
		c.inflight.releaseID(id)
		call.fail(cerr)
	}

	wasConnecting := c.state.Load() == stateConnecting
	if wasConnecting && cerr.Code != CodeOK.Code && c.hostIndex+1 < len(c.hosts) {
		c.hostIndex++
		c.log.Warn("connect attempt failed, trying next host",
			"error", cerr, "next", c.hosts[c.hostIndex])
		c.dialNext()
		return
	}

	c.state.Store(stateDisconnected)
	opts := c.connectOpts
	c.connectOpts = nil

	if cerr.Code != CodeOK.Code {
		c.log.Warn("connection lost", "error", cerr)
	}

	switch {
	case wasConnecting:
		if opts != nil && opts.OnFailure != nil {
			opts.OnFailure(opts.InvocationContext, cerr)
		}
	default:
		if c.opts.OnConnectionLost != nil {
			c.opts.OnConnectionLost(cerr)
		}
	}
}

// Disconnect sends a DISCONNECT packet and closes the connection. The
// OnConnectionLost callback is invoked with CodeOK.
func (c *Client) Disconnect() error {
	if c.state.Load() == stateDisconnected {
		return CodeInvalidState.Err("not connecting or connected")
	}

	c.enqueueOp(func() {
		if c.state.Load() == stateDisconnected {
			return
		}

		if c.state.Load() == stateConnected {
			c.write(&packets.DisconnectPacket{FixedHeader: packets.NewFixedHeader(packets.Disconnect)})
		}

		c.teardown(CodeOK.Err())
	})

	return nil
}

// Subscribe requests a subscription to a topic filter. The outcome is
// reported through the options callbacks; a timed-out call fails exactly once
// and a late acknowledgement is dropped.
func (c *Client) Subscribe(filter string, opts *SubscribeOptions) error {
	if opts == nil {
		opts = &SubscribeOptions{}
	}
	if filter == "" {
		return CodeInvalidArgument.Err("", "filter")
	}
	if err := packets.ValidateUTF8([]byte(filter)); err != nil {
		return CodeMalformedUTF.Err(err)
	}
	if err := opts.validate(); err != nil {
		return err
	}
	if c.state.Load() != stateConnected {
		return CodeInvalidState.Err("not connected")
	}

	id, err := c.inflight.reserveID()
	if err != nil {
		return err
	}

	c.enqueueOp(func() {
		if c.state.Load() != stateConnected {
			c.inflight.releaseID(id)
			if opts.OnFailure != nil {
				opts.OnFailure(opts.InvocationContext, CodeInvalidState.Err("not connected"))
			}
			return
		}

		c.calls[id] = &pendingCall{
			id:           id,
			ctx:          opts.InvocationContext,
			onSubscribed: opts.OnSuccess,
			onFailure:    opts.OnFailure,
			deadline:     c.callDeadline(id, opts.Timeout, CodeSubscribeTimeout),
		}

		c.write(&packets.SubscribePacket{
			FixedHeader: packets.NewFixedHeader(packets.Subscribe),
			PacketID:    id,
			Topics:      []string{filter},
			Qoss:        []byte{opts.QoS},
		})
	})

	return nil
}

// Unsubscribe requests removal of a subscription.
func (c *Client) Unsubscribe(filter string, opts *UnsubscribeOptions) error {
	if opts == nil {
		opts = &UnsubscribeOptions{}
	}
	if filter == "" {
		return CodeInvalidArgument.Err("", "filter")
	}
	if err := packets.ValidateUTF8([]byte(filter)); err != nil {
		return CodeMalformedUTF.Err(err)
	}
	if err := opts.validate(); err != nil {
		return err
	}
	if c.state.Load() != stateConnected {
		return CodeInvalidState.Err("not connected")
	}

	id, err := c.inflight.reserveID()
	if err != nil {
		return err
	}

	c.enqueueOp(func() {
		if c.state.Load() != stateConnected {
			c.inflight.releaseID(id)
			if opts.OnFailure != nil {
				opts.OnFailure(opts.InvocationContext, CodeInvalidState.Err("not connected"))
			}
			return
		}

		c.calls[id] = &pendingCall{
			id:             id,
			ctx:            opts.InvocationContext,
			onUnsubscribed: opts.OnSuccess,
			onFailure:      opts.OnFailure,
			deadline:       c.callDeadline(id, opts.Timeout, CodeUnsubscribeTimeout),
		}

		c.write(&packets.UnsubscribePacket{
			FixedHeader: packets.NewFixedHeader(packets.Unsubscribe),
			PacketID:    id,
			Topics:      []string{filter},
		})
	})

	return nil
}

// callDeadline arms the timeout of a pending call. A zero timeout leaves the
// call waiting indefinitely.
func (c *Client) callDeadline(id uint16, timeout time.Duration, code Code) *deadline {
	if timeout == 0 {
		return nil
	}

	ep := c.epoch
	return newDeadline(c.opts.Clock, timeout,
		func(op func()) { c.enqueueEpochOp(ep, op) },
		func() {
			call, ok := c.calls[id]
			if !ok {
				return
			}

			delete(c.calls, id)
			c.inflight.releaseID(id)
			call.fail(code.Err())
		})
}

// Send publishes a message. Delivery completion is reported through the
// OnDelivered callback: after the transport write for QoS 0, after the final
// acknowledgement for QoS 1 and 2. The message must not be mutated after the
// call.
func (c *Client) Send(m *Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	if c.state.Load() != stateConnected {
		return CodeInvalidState.Err("not connected")
	}

	pk := m.packet()

	if m.QoS > 0 {
		if _, err := c.inflight.addSent(pk); err != nil {
			return err
		}
	}

	c.enqueueOp(func() {
		if m.QoS > 0 {
			// persisted first; if the connection died in the meantime the
			// message is retransmitted on the next connect
			if e, ok := c.inflight.getSent(pk.PacketID); ok {
				c.persistSent(e)
			}
			if c.state.Load() == stateConnected {
				c.write(pk)
			}
			return
		}

		if c.state.Load() != stateConnected {
			return
		}

		c.write(pk)
		if c.opts.OnDelivered != nil && c.state.Load() == stateConnected {
			c.opts.OnDelivered(m)
		}
	})

	return nil
}

// persistSent writes the durable record of one pending outbound message.
func (c *Client) persistSent(e *sentEntry) {
	rec := store.NewRecord(e.packet, e.seq, e.pubrec)
	raw, err := rec.MarshalBinary()
	if err != nil {
		c.log.Warn("persisting sent message failed", "error", err)
		return
	}

	if err := c.store.Set(c.identity, store.SentKey(e.packet.PacketID), raw); err != nil {
		c.log.Warn("persisting sent message failed", "id", e.packet.PacketID, "error", err)
	}
}

// persistRecv writes the durable record of one pending inbound QoS 2 message.
func (c *Client) persistRecv(pk *packets.PublishPacket) {
	rec := store.NewRecord(pk, 0, false)
	raw, err := rec.MarshalBinary()
	if err != nil {
		c.log.Warn("persisting received message failed", "error", err)
		return
	}

	if err := c.store.Set(c.identity, store.ReceivedKey(pk.PacketID), raw); err != nil {
		c.log.Warn("persisting received message failed", "id", pk.PacketID, "error", err)
	}
}

// deliver hands an inbound message to the application.
func (c *Client) deliver(pk *packets.PublishPacket) {
	if c.opts.OnMessage != nil {
		c.opts.OnMessage(messageFromPacket(pk))
	}
}

// onPublish handles an inbound application message at any QoS.
func (c *Client) onPublish(pk *packets.PublishPacket) {
	switch pk.Qos {
	case 0:
		c.deliver(pk)

	case 1:
		// acknowledge first so a crash during delivery cannot ack twice
		c.write(&packets.PubackPacket{
			FixedHeader: packets.NewFixedHeader(packets.Puback),
			PacketID:    pk.PacketID,
		})
		if c.state.Load() == stateConnected {
			c.deliver(pk)
		}

	case 2:
		// held back until the PUBREL arrives; a re-sent PUBLISH overwrites
		held := pk.Copy()
		held.PacketID = pk.PacketID
		held.Qos = pk.Qos
		held.Retain = pk.Retain
		held.Dup = pk.Dup
		c.inflight.setRecv(pk.PacketID, held)
		c.persistRecv(held)
		c.write(&packets.PubrecPacket{
			FixedHeader: packets.NewFixedHeader(packets.Pubrec),
			PacketID:    pk.PacketID,
		})
	}
}

// onPuback completes a QoS 1 publish.
func (c *Client) onPuback(id uint16) {
	e, ok := c.inflight.delSent(id)
	if !ok {
		c.log.Debug("PUBACK for unknown message", "id", id)
		return
	}

	if err := c.store.Del(c.identity, store.SentKey(id)); err != nil {
		c.log.Warn("removing sent message failed", "id", id, "error", err)
	}

	if c.opts.OnDelivered != nil {
		c.opts.OnDelivered(messageFromPacket(e.packet))
	}
}

// onPubrec advances a QoS 2 publish to its release phase. Once recorded, the
// message is only ever re-sent as a PUBREL.
func (c *Client) onPubrec(id uint16) {
	if e, ok := c.inflight.setPubrec(id); ok {
		c.persistSent(e)
	} else {
		c.log.Debug("PUBREC for unknown message", "id", id)
	}

	c.write(&packets.PubrelPacket{
		FixedHeader: packets.NewFixedHeader(packets.Pubrel),
		PacketID:    id,
	})
}

// onPubrel releases a held inbound QoS 2 message. The PUBCOMP is sent
// unconditionally so a peer retrying PUBREL always completes.
func (c *Client) onPubrel(id uint16) {
	if pk, ok := c.inflight.delRecv(id); ok {
		if err := c.store.Del(c.identity, store.ReceivedKey(id)); err != nil {
			c.log.Warn("removing received message failed", "id", id, "error", err)
		}
		c.deliver(pk)
	}

	if c.state.Load() == stateConnected {
		c.write(&packets.PubcompPacket{
			FixedHeader: packets.NewFixedHeader(packets.Pubcomp),
			PacketID:    id,
		})
	}
}

// onPubcomp completes a QoS 2 publish.
func (c *Client) onPubcomp(id uint16) {
	e, ok := c.inflight.delSent(id)
	if !ok {
		c.log.Debug("PUBCOMP for unknown message", "id", id)
		return
	}

	if err := c.store.Del(c.identity, store.SentKey(id)); err != nil {
		c.log.Warn("removing sent message failed", "id", id, "error", err)
	}

	if c.opts.OnDelivered != nil {
		c.opts.OnDelivered(messageFromPacket(e.packet))
	}
}

// onSuback completes a pending subscribe call.
func (c *Client) onSuback(pk *packets.SubackPacket) {
	call, ok := c.calls[pk.PacketID]
	if !ok {
		c.log.Debug("SUBACK for unknown call", "id", pk.PacketID)
		return
	}

	call.deadline.cancel()
	delete(c.calls, pk.PacketID)
	c.inflight.releaseID(pk.PacketID)

	if call.onSubscribed != nil {
		var granted byte
		if len(pk.GrantedQoss) > 0 {
			granted = pk.GrantedQoss[0]
		}
		call.onSubscribed(call.ctx, granted)
	}
}

// onUnsuback completes a pending unsubscribe call.
func (c *Client) onUnsuback(id uint16) {
	call, ok := c.calls[id]
	if !ok {
		c.log.Debug("UNSUBACK for unknown call", "id", id)
		return
	}

	call.deadline.cancel()
	delete(c.calls, id)
	c.inflight.releaseID(id)

	if call.onUnsubscribed != nil {
		call.onUnsubscribed(call.ctx)
	}
}
