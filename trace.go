// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// traceCapacity is the number of records the trace ring buffer retains.
const traceCapacity = 100

// maskPassword hides credential values in traced packet dumps.
var maskPassword = regexp.MustCompile(`(?i)(password:\s?)[^\s}]+`)

// TraceRecord is one entry of the client trace buffer.
type TraceRecord struct {
	Time  time.Time
	Label string
	Args  []string
}

// traceLog is a fixed-capacity ring buffer of trace records. It records only
// while enabled. The engine loop writes it and the public accessors read it,
// so it carries its own lock.
type traceLog struct {
	sync.Mutex
	enabled bool
	records []TraceRecord
	next    int
	wrapped bool
}

func newTraceLog() *traceLog {
	return &traceLog{records: make([]TraceRecord, traceCapacity)}
}

// add appends a record, formatting each argument and masking any credential
// values it carries.
func (t *traceLog) add(label string, args ...any) {
	t.Lock()
	defer t.Unlock()

	if !t.enabled {
		return
	}

	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = maskPassword.ReplaceAllString(fmt.Sprintf("%+v", a), "${1}****")
	}

	t.records[t.next] = TraceRecord{Time: time.Now(), Label: label, Args: rendered}
	t.next++
	if t.next == len(t.records) {
		t.next = 0
		t.wrapped = true
	}
}

// start begins recording.
func (t *traceLog) start() {
	t.Lock()
	defer t.Unlock()
	t.enabled = true
}

// stop ends recording. Retained records stay readable.
func (t *traceLog) stop() {
	t.Lock()
	defer t.Unlock()
	t.enabled = false
}

// snapshot returns the retained records, oldest first.
func (t *traceLog) snapshot() []TraceRecord {
	t.Lock()
	defer t.Unlock()

	var out []TraceRecord
	if t.wrapped {
		out = append(out, t.records[t.next:]...)
	}
	out = append(out, t.records[:t.next]...)

	cp := make([]TraceRecord, len(out))
	copy(cp, out)
	return cp
}
