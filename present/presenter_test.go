package present

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogPresenterPresentDoesNotPanic(t *testing.T) {
	p := NewLogPresenter(zap.NewNop().Sugar())

	var txid chainhash.Hash
	require.NotPanics(t, func() {
		p.Present(txid, []byte{0x01, 0x02, 0x03})
	})
}
