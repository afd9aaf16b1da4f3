// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

// camctl connects to a broker using a config file, subscribes to the
// configured camera topics and prints every message it receives. It is the
// reference consumer of the client package.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/camstream/mqttc"
	"github.com/camstream/mqttc/config"
)

func main() {
	configPath := flag.String("config", "camctl.yml", "path of the yaml or json config file")
	trace := flag.Bool("trace", false, "dump the protocol trace on exit")
	flag.Parse()

	log := slog.Default()

	b, err := os.ReadFile(*configPath)
	if err != nil {
		log.Error("reading config failed", "error", err)
		os.Exit(1)
	}

	setup, err := config.FromBytes(b)
	if err != nil || setup == nil {
		log.Error("parsing config failed", "error", err)
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	done := make(chan bool, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		done <- true
	}()

	setup.Options.Logger = log
	setup.Options.OnMessage = func(m *mqttc.Message) {
		log.Info("message", "topic", m.Destination, "qos", m.QoS, "bytes", len(m.Payload))
	}
	setup.Options.OnConnectionLost = func(cerr *mqttc.ClientError) {
		if mqttc.CodeOK.Is(cerr) {
			return
		}
		log.Warn("connection lost", "error", cerr)
		done <- true
	}

	client, err := mqttc.New(setup.Options)
	if err != nil {
		log.Error("creating client failed", "error", err)
		os.Exit(1)
	}

	if *trace {
		client.StartTrace()
	}

	setup.Connect.OnSuccess = func(any) {
		log.Info("connected")
		for _, sub := range setup.Subscriptions {
			sub := sub
			err := client.Subscribe(sub.Topic, &mqttc.SubscribeOptions{
				QoS: sub.Qos,
				OnSuccess: func(_ any, granted byte) {
					log.Info("subscribed", "topic", sub.Topic, "granted", granted)
				},
				OnFailure: func(_ any, cerr *mqttc.ClientError) {
					log.Warn("subscribe failed", "topic", sub.Topic, "error", cerr)
				},
			})
			if err != nil {
				log.Warn("subscribe failed", "topic", sub.Topic, "error", err)
			}
		}
	}
	setup.Connect.OnFailure = func(_ any, cerr *mqttc.ClientError) {
		log.Error("connect failed", "error", cerr)
		done <- true
	}

	if err := client.Connect(setup.Connect); err != nil {
		log.Error("connect failed", "error", err)
		os.Exit(1)
	}

	<-done
	log.Warn("caught signal, stopping...")

	if client.IsConnected() {
		_ = client.Disconnect()
	}

	if *trace {
		for _, r := range client.TraceLog() {
			log.Info("trace", "at", r.Time, "label", r.Label, "args", r.Args)
		}
	}

	_ = client.Close()
	log.Info("camctl finished")
}
