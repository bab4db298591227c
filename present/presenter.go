// Package present implements the "transaction presenter" collaborator: the
// sink a synced peer hands matched transactions to for display or relay.
package present

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"go.uber.org/zap"
)

// Presenter receives a transaction a peer's Bloom filter matched, identified
// by its hash, alongside the raw serialised bytes.
type Presenter interface {
	Present(txid chainhash.Hash, raw []byte)
}

// LogPresenter is the default Presenter: it logs each matched transaction at
// Info level and otherwise does nothing, standing in for whatever downstream
// consumer (wallet, block explorer feed, alerting pipeline) a deployment
// plugs in.
type LogPresenter struct {
	log *zap.SugaredLogger
}

// NewLogPresenter returns a LogPresenter writing through log.
func NewLogPresenter(log *zap.SugaredLogger) *LogPresenter {
	return &LogPresenter{log: log}
}

// Present implements Presenter.
func (p *LogPresenter) Present(txid chainhash.Hash, raw []byte) {
	p.log.Infow("matched transaction",
		"txid", txid.String(),
		"bytes", len(raw),
	)
}
