// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/camstream/mqttc/store/memory"
	"github.com/camstream/mqttc/transport"
)

func TestClientOptionsDefaults(t *testing.T) {
	o := ClientOptions{Host: "broker.local"}
	o.ensureDefaults()

	require.Equal(t, 1883, o.Port)
	require.NotEmpty(t, o.ClientID)
	require.LessOrEqual(t, len(o.ClientID), maxClientIDLength)
	require.IsType(t, &transport.WebsocketDialer{}, o.Dialer)
	require.IsType(t, &memory.Store{}, o.Store)
	require.NotNil(t, o.Logger)
	require.NotNil(t, o.Clock)
	require.Equal(t, defaultMaxInflight, o.MaxInflight)
	require.Nil(t, o.validate())
	require.Equal(t, "broker.local:1883", o.addr())
}

func TestClientOptionsValidate(t *testing.T) {
	tests := []struct {
		desc   string
		mutate func(*ClientOptions)
	}{
		{"missing host", func(o *ClientOptions) { o.Host = "" }},
		{"bad port", func(o *ClientOptions) { o.Port = 70000 }},
		{"long client id", func(o *ClientOptions) { o.ClientID = "camera-client-identifier-way-too-long" }},
		{"invalid utf8 client id", func(o *ClientOptions) { o.ClientID = string([]byte{0xC3, 0x28}) }},
		{"bad max inflight", func(o *ClientOptions) { o.MaxInflight = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			o := ClientOptions{Host: "h"}
			o.ensureDefaults()
			tt.mutate(&o)
			err := o.validate()
			require.NotNil(t, err)
			require.True(t, CodeInvalidArgument.Is(err))
		})
	}
}

func TestConnectOptionsDefaults(t *testing.T) {
	o := NewConnectOptions()
	require.Equal(t, 30*time.Second, o.Timeout)
	require.Equal(t, 60*time.Second, o.KeepAlive)
	require.True(t, o.CleanSession)
	require.Nil(t, o.validate())
}

func TestConnectOptionsValidate(t *testing.T) {
	o := NewConnectOptions()
	o.Timeout = 0
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = NewConnectOptions()
	o.Hosts = []string{"a", "b"}
	o.Ports = []int{1883}
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = NewConnectOptions()
	o.Hosts = []string{"a", ""}
	o.Ports = []int{1883, 1883}
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = NewConnectOptions()
	o.WillMessage = NewMessage("", nil)
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = NewConnectOptions()
	o.WillMessage = NewMessage("status/cam1", []byte{0xFF})
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = NewConnectOptions()
	o.WillMessage = NewTextMessage("status/cam1", "offline")
	require.Nil(t, o.validate())
}

func TestConnectOptionsHostList(t *testing.T) {
	o := NewConnectOptions()
	require.Equal(t, []string{"fallback:1883"}, o.hostList("fallback:1883"))

	o.Hosts = []string{"b1", "b2"}
	o.Ports = []int{1883, 8883}
	require.Equal(t, []string{"b1:1883", "b2:8883"}, o.hostList("fallback:1883"))
}

func TestSubscribeOptionsValidate(t *testing.T) {
	o := &SubscribeOptions{QoS: 3}
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = &SubscribeOptions{QoS: 2, Timeout: -time.Second}
	require.True(t, CodeInvalidArgument.Is(o.validate()))

	o = &SubscribeOptions{QoS: 1, Timeout: time.Second}
	require.Nil(t, o.validate())
}
