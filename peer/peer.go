// Package peer implements the peer connection state machine: handshake,
// header sync, Bloom filter installation, and steady-state inv/tx/ping
// handling.
package peer

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/chainwatch/spvpeer/bloom"
	"github.com/chainwatch/spvpeer/checkpoint"
	"github.com/chainwatch/spvpeer/present"
	"github.com/chainwatch/spvpeer/session"
	"github.com/chainwatch/spvpeer/wire"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// state is the peer connection's lifecycle position.
type state int32

const (
	stateInit state = iota
	stateVersionSent
	stateVersionReceived
	stateHandshakeDone
	stateSyncingHeaders
	stateSynced
	stateTerminated
)

// pingInterval is the driver's liveness cadence once the handshake is done.
const pingInterval = 2 * time.Minute

// bloomTargetElements and bloomFalsePositiveRate size the watch-list filter.
const (
	bloomTargetElements    = 700
	bloomFalsePositiveRate = 0.0001
)

// invDedupTTL bounds how long a requested inventory hash is remembered
// before a repeat inv announcement is allowed to trigger getdata again.
const invDedupTTL = 10 * time.Minute

// getdataRatePerSecond and getdataBurst bound how fast inv-driven getdata
// sends can be issued, decoupling read and write latency.
const (
	getdataRatePerSecond = 50
	getdataBurst         = 200
)

// Config collects everything a Peer needs to run one connection.
type Config struct {
	Conn            net.Conn
	Store           checkpoint.Store
	Net             wire.BitcoinNet
	ProtocolVersion uint32
	UserAgent       string
	StartHeight     int32
	WatchedHashes   [][]byte
	Presenter       present.Presenter
	Logger          *zap.SugaredLogger
}

// Peer drives one TCP connection's handshake, header sync, and steady-state
// message exchange with a remote node. It owns exactly one session.State and
// one net.Conn, split across a reader goroutine and a driver loop.
type Peer struct {
	conn    net.Conn
	netMagic wire.BitcoinNet
	pver    uint32

	session *session.State

	watchedHashes [][]byte
	filter        *bloom.Filter
	presenter     present.Presenter
	userAgent     string
	startHeight   int32

	state atomic.Int32

	limiter *rate.Limiter
	seen    *bigcache.BigCache

	genesisHash chainhash.Hash

	batchBlockHash chainhash.Hash
	batchHasBlock  bool
}

// New constructs a Peer ready to Start. The session is seeded from cfg.Store
// via session.New.
func New(cfg Config) (*Peer, error) {
	seen, err := bigcache.New(context.Background(), bigcache.DefaultConfig(invDedupTTL))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "construct inv dedup cache")
	}

	sess := session.New(cfg.Store, cfg.Logger)

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = wire.DefaultUserAgent
	}

	p := &Peer{
		conn:          cfg.Conn,
		netMagic:      cfg.Net,
		pver:          cfg.ProtocolVersion,
		session:       sess,
		watchedHashes: cfg.WatchedHashes,
		presenter:     cfg.Presenter,
		userAgent:     userAgent,
		startHeight:   cfg.StartHeight,
		limiter:       rate.NewLimiter(rate.Limit(getdataRatePerSecond), getdataBurst),
		seen:          seen,
		genesisHash:   checkpoint.GenesisHash,
	}

	p.state.Store(int32(stateInit))

	return p, nil
}

func (p *Peer) getState() state {
	return state(p.state.Load())
}

func (p *Peer) setState(s state) {
	p.state.Store(int32(s))
}

// Start sends the initial version message, launches the reader loop, and
// drives the ping cadence until ctx is cancelled or the session's run flag
// clears. It returns once the session has fully wound down.
func (p *Peer) Start(ctx context.Context) error {
	me := &wire.NetAddress{Services: 0, IP: net.IPv4zero, Port: 0}
	you := &wire.NetAddress{Services: 0, IP: net.IPv4zero, Port: 0}

	nonce, err := wire.RandomUint64()
	if err != nil {
		return pkgerrors.Wrap(err, "generate version nonce")
	}

	version := wire.NewMsgVersion(me, you, nonce, p.startHeight)
	version.UserAgent = p.userAgent

	if err := p.send(version); err != nil {
		return pkgerrors.Wrap(ErrFraming, err.Error())
	}

	p.setState(stateVersionSent)

	readerDone := make(chan error, 1)
	go func() {
		readerDone <- p.readLoop(ctx)
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.session.Run.Store(false)
			_ = p.conn.Close()
			<-readerDone

			return ctx.Err()

		case err := <-readerDone:
			return err

		case <-ticker.C:
			if !p.session.Run.Load() {
				continue
			}

			if s := p.getState(); s >= stateHandshakeDone && s < stateTerminated {
				nonce, err := wire.RandomUint64()
				if err != nil {
					continue
				}

				p.session.PingNonce.Store(nonce)

				if err := p.send(wire.NewMsgPing(nonce)); err != nil {
					p.session.Log.Warnw("ping send failed", "error", err)
				}
			}
		}
	}
}

// readLoop repeatedly calls readOne until the session ends or a fatal error
// occurs: it blocks on the socket, then invokes the per-frame handler.
func (p *Peer) readLoop(ctx context.Context) error {
	for p.session.Run.Load() && ctx.Err() == nil {
		cont, err := p.readOne()
		if err != nil {
			p.setState(stateTerminated)
			p.session.Run.Store(false)

			return err
		}

		if !cont {
			p.setState(stateTerminated)
			p.session.Run.Store(false)

			return nil
		}
	}

	return nil
}

// readOne blocks for one complete frame, dispatches it, and reports whether
// the session should continue.
func (p *Peer) readOne() (bool, error) {
	_, msg, _, err := wire.ReadMessageWithEncodingN(p.conn, p.pver, p.netMagic, wire.BaseEncoding)
	if err != nil {
		if errors.Is(err, wire.ErrUnknownCommand) {
			p.session.Log.Debugw("unknown command drained")
			return true, nil
		}

		return false, pkgerrors.Wrap(ErrFraming, err.Error())
	}

	cmd := msg.Command()
	messagesIn.WithLabelValues(cmd).Inc()

	handler, ok := handlers[cmd]
	if !ok {
		p.session.Log.Debugw("no handler for recognised command, draining", "command", cmd)
		return true, nil
	}

	cont, err := handler(p, msg)
	if err != nil {
		return false, pkgerrors.Wrap(ErrSemantic, err.Error())
	}

	return cont, nil
}

// send encodes and writes msg to the connection, serialised through the
// session's send mutex and reusable buffer.
func (p *Peer) send(msg wire.Message) error {
	return p.session.Send(func() error {
		buf := bytes.NewBuffer(p.session.SendBuf[:0])

		if err := wire.WriteMessage(buf, msg, p.pver, p.netMagic); err != nil {
			return err
		}

		p.session.SendBuf = buf.Bytes()

		_, err := p.conn.Write(p.session.SendBuf)
		if err == nil {
			messagesOut.WithLabelValues(msg.Command()).Inc()
		}

		return err
	})
}
