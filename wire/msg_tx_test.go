// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// coinbaseRaw is a minimal, well-formed serialised transaction: version 1,
// one input, one output, locktime 0. Not a real coinbase, just enough bytes
// to exercise the codec's raw-capture path.
var coinbaseRaw = []byte{
	0x01, 0x00, 0x00, 0x00, // version 1
	0x01,                   // 1 input
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // prev hash
	0xff, 0xff, 0xff, 0xff, // prev index
	0x00,                   // script len 0
	0xff, 0xff, 0xff, 0xff, // sequence
	0x01,                                           // 1 output
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // value
	0x00,                   // script len 0
	0x00, 0x00, 0x00, 0x00, // locktime 0
}

func TestTx(t *testing.T) {
	pver := ProtocolVersion

	msg := NewMsgTx(coinbaseRaw)

	require.Equal(t, "tx", msg.Command())
	require.Equal(t, uint64(MaxTxPayload), msg.MaxPayloadLength(pver))
	require.Equal(t, int32(1), msg.Version)
	require.Equal(t, uint32(0), msg.LockTime)

	var buf bytes.Buffer
	require.NoError(t, msg.BsvEncode(&buf, pver, BaseEncoding))
	require.Equal(t, coinbaseRaw, buf.Bytes())

	var decoded MsgTx
	require.NoError(t, decoded.Bsvdecode(bytes.NewReader(coinbaseRaw), pver, BaseEncoding))
	require.Equal(t, msg.Version, decoded.Version)
	require.Equal(t, msg.LockTime, decoded.LockTime)
	require.Equal(t, msg.TxHash(), decoded.TxHash())
}

func TestTxBsvdecodeTooShort(t *testing.T) {
	var msg MsgTx
	err := msg.Bsvdecode(bytes.NewReader([]byte{0x01, 0x02}), ProtocolVersion, BaseEncoding)
	require.Error(t, err)
}
