// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2024 camstream

package mqttc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camstream/mqttc/packets"
)

func TestTraceDisabledByDefault(t *testing.T) {
	tr := newTraceLog()
	tr.add("send", "x")
	require.Empty(t, tr.snapshot())
}

func TestTraceRecordsWhileEnabled(t *testing.T) {
	tr := newTraceLog()
	tr.start()
	tr.add("send", "a")
	tr.add("recv", "b")
	tr.stop()
	tr.add("send", "c")

	recs := tr.snapshot()
	require.Len(t, recs, 2)
	require.Equal(t, "send", recs[0].Label)
	require.Equal(t, []string{"a"}, recs[0].Args)
	require.Equal(t, "recv", recs[1].Label)
}

func TestTraceRingBufferKeepsNewest(t *testing.T) {
	tr := newTraceLog()
	tr.start()

	for i := 0; i < traceCapacity+10; i++ {
		tr.add("send", fmt.Sprintf("m%d", i))
	}

	recs := tr.snapshot()
	require.Len(t, recs, traceCapacity)
	require.Equal(t, []string{"m10"}, recs[0].Args)
	require.Equal(t, []string{fmt.Sprintf("m%d", traceCapacity+9)}, recs[traceCapacity-1].Args)
}

func TestTraceMasksPasswords(t *testing.T) {
	tr := newTraceLog()
	tr.start()

	pk := packets.NewConnectPacket("cam1")
	pk.UsernameFlag = true
	pk.Username = "operator"
	pk.PasswordFlag = true
	pk.Password = "hunter2"
	tr.add("send", pk)

	recs := tr.snapshot()
	require.Len(t, recs, 1)
	require.NotContains(t, recs[0].Args[0], "hunter2")
	require.Contains(t, recs[0].Args[0], "Password:****")
	require.Contains(t, recs[0].Args[0], "operator")
}
