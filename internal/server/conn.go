package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/H2Owater425/dqache/internal/cache"
	"github.com/H2Owater425/dqache/internal/logger"
	"github.com/H2Owater425/dqache/internal/storage"
	"github.com/H2Owater425/dqache/internal/wire"
)

const readTimeout = 60 * time.Second

// handleConn drives one accepted connection through the handshake state
// machine and then the READY dispatch loop until the peer disconnects, the
// connection is closed by policy, or ctx is cancelled.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connLog := s.log.Sub(conn.RemoteAddr().String())

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	if err := wire.WriteReady(conn, s.version); err != nil {
		connLog.Warningf("failed to send READY: %v", err)
		return
	}

	if err := s.handshake(conn); err != nil {
		connLog.Warningf("handshake failed: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			connLog.Warningf("failed to set read deadline: %v", err)
			return
		}

		done, err := s.dispatchOne(ctx, conn, connLog)
		if err != nil {
			if isEOF(err) {
				connLog.Warning("client closed the connection")
			} else {
				connLog.Warningf("connection loop ended: %v", err)
			}
			return
		}
		if done {
			return
		}
	}
}

// handshake performs GREETING → AWAIT_HELLO → READY: reads the client's
// HELLO and rejects a client version strictly newer than the server's.
func (s *Server) handshake(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return err
	}

	clientVersion, err := wire.ReadHello(conn)
	if err != nil {
		s.sendErrorThenQuit(conn, err.Error())
		return err
	}

	if clientVersion.GreaterThan(s.version) {
		msg := fmt.Sprintf("client version %s is newer than server version %s", clientVersion, s.version)
		s.sendErrorThenQuit(conn, msg)
		return errors.New(msg)
	}

	return nil
}

// dispatchOne reads and handles exactly one opcode. done reports whether
// the connection should be closed afterward (QUIT, a close-classified
// error, or a read failure already reported to the caller via err).
func (s *Server) dispatchOne(ctx context.Context, conn net.Conn, connLog logger.ILogger) (done bool, err error) {
	start := time.Now()

	op, readErr := wire.ReadOpcode(conn)
	if readErr != nil {
		return true, s.failRead(conn, readErr)
	}

	switch op {
	case wire.OpNop:
		err := wire.WriteOK(conn)
		s.metrics.ObserveOp(op.String(), time.Since(start))
		return false, err

	case wire.OpQuit:
		connLog.Info("client sent QUIT")
		return true, nil

	case wire.OpSet:
		return s.handleSet(ctx, conn, connLog, start)

	case wire.OpDel:
		return s.handleDel(ctx, conn, connLog, start)

	case wire.OpGet:
		return s.handleGet(ctx, conn, connLog, start)

	default:
		s.sendErrorThenQuit(conn, wire.ErrUnknownOpcode.Error())
		return true, wire.ErrUnknownOpcode
	}
}

func (s *Server) handleSet(ctx context.Context, conn net.Conn, connLog logger.ILogger, start time.Time) (bool, error) {
	key, err := wire.ReadKey(conn)
	if err != nil {
		return true, s.failRead(conn, err)
	}
	value, err := wire.ReadValue(conn)
	if err != nil {
		return true, s.failRead(conn, err)
	}

	now := unixNow()
	evicted, _, setErr := s.cache.Set(key, cache.Entry{Value: value, AccessedAt: now, AccessCount: 1})
	if setErr != nil {
		if errors.Is(setErr, cache.ErrModelRun) {
			return s.failOp(conn, connLog, KindModelRun, setErr)
		}
		return s.failOp(conn, connLog, KindEmptyCache, setErr)
	}
	if evicted {
		s.metrics.Eviction()
	}
	s.metrics.SetSize(s.cache.Len())

	if err := s.writeThrough(ctx, key, value); err != nil {
		// Durability is at-most-once: the cache keeps the new value even
		// though storage did not persist it (see DESIGN.md).
		if errors.Is(err, storage.ErrFull) {
			return s.failOp(conn, connLog, KindStorageFull, err)
		}
		return s.failOp(conn, connLog, KindLockPoisoned, err)
	}

	s.metrics.ObserveOp(wire.OpSet.String(), time.Since(start))
	return false, wire.WriteOK(conn)
}

func (s *Server) handleDel(ctx context.Context, conn net.Conn, connLog logger.ILogger, start time.Time) (bool, error) {
	key, err := wire.ReadKey(conn)
	if err != nil {
		return true, s.failRead(conn, err)
	}

	s.cache.Remove(key)
	s.metrics.SetSize(s.cache.Len())

	existed, delErr := s.deleteThrough(ctx, key)
	if delErr != nil {
		return s.failOp(conn, connLog, KindLockPoisoned, delErr)
	}
	if !existed {
		return s.failOp(conn, connLog, KindKeyNotFound, errors.New("delete on absent key"))
	}

	s.metrics.ObserveOp(wire.OpDel.String(), time.Since(start))
	return false, wire.WriteOK(conn)
}

func (s *Server) handleGet(ctx context.Context, conn net.Conn, connLog logger.ILogger, start time.Time) (bool, error) {
	key, err := wire.ReadKey(conn)
	if err != nil {
		return true, s.failRead(conn, err)
	}

	if value, ok := s.cache.Get(key); ok {
		s.metrics.Hit()
		s.metrics.ObserveOp(wire.OpGet.String(), time.Since(start))
		return false, wire.WriteValue(conn, value)
	}
	s.metrics.Miss()

	value, ok, readErr := s.readThrough(ctx, key)
	if readErr != nil {
		return s.failOp(conn, connLog, KindLockPoisoned, readErr)
	}
	if !ok {
		return s.failOp(conn, connLog, KindKeyNotFound, errors.New("get on absent key"))
	}

	// Promotion: repopulate the cache so the next GET is a hit.
	now := unixNow()
	if _, _, setErr := s.cache.Set(key, cache.Entry{Value: value, AccessedAt: now, AccessCount: 1}); setErr != nil {
		connLog.Warningf("promotion after storage read failed: %v", setErr)
	} else {
		s.metrics.SetSize(s.cache.Len())
	}

	s.metrics.ObserveOp(wire.OpGet.String(), time.Since(start))
	return false, wire.WriteValue(conn, value)
}

// failOp sends an ERROR frame for a classified failure and reports whether
// the connection loop should stop, per Kind.action().
func (s *Server) failOp(conn net.Conn, connLog logger.ILogger, kind Kind, cause error) (bool, error) {
	connLog.Warningf("%s: %v", kind.message(), cause)

	switch kind.action() {
	case actionKeepConnection:
		return false, wire.WriteError(conn, kind.message())
	case actionSendQuitAndClose:
		s.sendErrorThenQuit(conn, kind.message())
		return true, cause
	default:
		_ = wire.WriteError(conn, kind.message())
		return true, cause
	}
}

// failRead classifies a frame-read failure (EOF, timeout, or a malformed
// frame) and replies accordingly.
func (s *Server) failRead(conn net.Conn, err error) error {
	if isEOF(err) {
		return err
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		s.sendErrorThenQuit(conn, KindTimedOut.message())
		return err
	}
	s.sendErrorThenQuit(conn, err.Error())
	return err
}

func (s *Server) sendErrorThenQuit(conn net.Conn, message string) {
	_ = wire.WriteError(conn, message)
	_ = wire.WriteQuit(conn)
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func unixNow() uint64 {
	return uint64(time.Now().Unix())
}
