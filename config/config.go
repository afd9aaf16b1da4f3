// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// Package config assembles a client and its connect parameters from a JSON or
// YAML config source.
package config

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/camstream/mqttc"
	"github.com/camstream/mqttc/store"
	"github.com/camstream/mqttc/store/badger"
	"github.com/camstream/mqttc/store/bolt"
	"github.com/camstream/mqttc/store/pebble"
	"github.com/camstream/mqttc/store/redis"
	"github.com/camstream/mqttc/transport"

	redisdb "github.com/go-redis/redis/v8"
)

// config defines the structure of configuration data to be parsed from a
// config source.
type config struct {
	Client        clientConfig    `yaml:"client" json:"client"`
	Connect       connectConfig   `yaml:"connect" json:"connect"`
	Transport     transportConfig `yaml:"transport" json:"transport"`
	Store         *storeConfig    `yaml:"store" json:"store"`
	Subscriptions []Subscription  `yaml:"subscriptions" json:"subscriptions"`
}

type clientConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	ClientID    string `yaml:"client_id" json:"client_id"`
	MaxInflight int    `yaml:"max_inflight" json:"max_inflight"`
}

type connectConfig struct {
	TimeoutSeconds   int         `yaml:"timeout_seconds" json:"timeout_seconds"`
	KeepAliveSeconds int         `yaml:"keep_alive_seconds" json:"keep_alive_seconds"`
	Username         string      `yaml:"username" json:"username"`
	Password         string      `yaml:"password" json:"password"`
	CleanSession     *bool       `yaml:"clean_session" json:"clean_session"`
	Hosts            []string    `yaml:"hosts" json:"hosts"`
	Ports            []int       `yaml:"ports" json:"ports"`
	Will             *willConfig `yaml:"will" json:"will"`
}

type willConfig struct {
	Topic    string `yaml:"topic" json:"topic"`
	Payload  string `yaml:"payload" json:"payload"`
	Qos      byte   `yaml:"qos" json:"qos"`
	Retained bool   `yaml:"retained" json:"retained"`
}

type transportConfig struct {
	Type string `yaml:"type" json:"type"` // ws, wss, tcp or tcps; default ws
	Path string `yaml:"path" json:"path"` // websocket endpoint path
}

// storeConfig selects at most one durable backend; none selects the volatile
// in-memory default.
type storeConfig struct {
	Bolt   *bolt.Options   `yaml:"bolt" json:"bolt"`
	Badger *badger.Options `yaml:"badger" json:"badger"`
	Pebble *pebble.Options `yaml:"pebble" json:"pebble"`
	Redis  *redisConfig    `yaml:"redis" json:"redis"`
}

type redisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	HPrefix  string `yaml:"h_prefix" json:"h_prefix"`
}

// Subscription is one topic filter subscribed after connecting.
type Subscription struct {
	Topic string `yaml:"topic" json:"topic"`
	Qos   byte   `yaml:"qos" json:"qos"`
}

// Setup holds everything assembled from a config source.
type Setup struct {
	Options       mqttc.ClientOptions
	Connect       *mqttc.ConnectOptions
	Subscriptions []Subscription
}

// FromBytes unmarshals a byte slice of JSON or YAML config data into a Setup.
// A configured durable store backend is opened as part of assembly.
func FromBytes(b []byte) (*Setup, error) {
	c := new(config)

	if len(b) == 0 {
		return nil, nil
	}

	if b[0] == '{' {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}

	return c.setup()
}

func (c *config) setup() (*Setup, error) {
	dialer, err := c.Transport.dialer()
	if err != nil {
		return nil, err
	}

	st, err := c.Store.open()
	if err != nil {
		return nil, err
	}

	opts := mqttc.ClientOptions{
		Host:        c.Client.Host,
		Port:        c.Client.Port,
		ClientID:    c.Client.ClientID,
		MaxInflight: c.Client.MaxInflight,
		Dialer:      dialer,
		Store:       st,
	}

	co := mqttc.NewConnectOptions()
	if c.Connect.TimeoutSeconds != 0 {
		co.Timeout = time.Duration(c.Connect.TimeoutSeconds) * time.Second
	}
	if c.Connect.KeepAliveSeconds != 0 {
		co.KeepAlive = time.Duration(c.Connect.KeepAliveSeconds) * time.Second
	}
	if c.Connect.CleanSession != nil {
		co.CleanSession = *c.Connect.CleanSession
	}
	co.Username = c.Connect.Username
	co.Password = c.Connect.Password
	co.Hosts = c.Connect.Hosts
	co.Ports = c.Connect.Ports

	if w := c.Connect.Will; w != nil {
		will := mqttc.NewTextMessage(w.Topic, w.Payload)
		will.QoS = w.Qos
		will.Retained = w.Retained
		co.WillMessage = will
	}

	return &Setup{
		Options:       opts,
		Connect:       co,
		Subscriptions: c.Subscriptions,
	}, nil
}

// dialer builds the transport dialer the config selects.
func (tc transportConfig) dialer() (transport.Dialer, error) {
	switch tc.Type {
	case "", "ws":
		return transport.NewWebsocketDialer(&transport.WebsocketConfig{Path: tc.Path}), nil
	case "wss":
		return transport.NewWebsocketDialer(&transport.WebsocketConfig{
			Path:      tc.Path,
			TLSConfig: &tls.Config{},
		}), nil
	case "tcp":
		return transport.NewTCPDialer(nil), nil
	case "tcps":
		return transport.NewTCPDialer(&transport.TCPConfig{TLSConfig: &tls.Config{}}), nil
	default:
		return nil, fmt.Errorf("unknown transport type %q", tc.Type)
	}
}

// open opens the durable backend the config selects, or returns nil for the
// in-memory default.
func (sc *storeConfig) open() (store.Store, error) {
	if sc == nil {
		return nil, nil
	}

	switch {
	case sc.Bolt != nil:
		return bolt.New(sc.Bolt)
	case sc.Badger != nil:
		return badger.New(sc.Badger)
	case sc.Pebble != nil:
		return pebble.New(sc.Pebble)
	case sc.Redis != nil:
		return redis.New(&redis.Options{
			HPrefix: sc.Redis.HPrefix,
			Options: &redisdb.Options{
				Addr:     sc.Redis.Addr,
				Username: sc.Redis.Username,
				Password: sc.Redis.Password,
				DB:       sc.Redis.DB,
			},
		})
	}

	return nil, nil
}
