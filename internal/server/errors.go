package server

// Kind is the server's error taxonomy: a classification used to pick the
// wire-level response and connection-lifecycle action, not a concrete Go
// error type.
type Kind int

const (
	KindBadFrame Kind = iota
	KindBadVersion
	KindKeyNotFound
	KindEmptyCache
	KindModelInit
	KindModelRun
	KindStorageFull
	KindTimedOut
	KindWouldBlock
	KindOutOfMemory
	KindLockPoisoned
)

// action describes what the connection loop does after an ERROR is sent.
type action int

const (
	actionKeepConnection action = iota
	actionCloseConnection
	actionSendQuitAndClose
)

func (k Kind) message() string {
	switch k {
	case KindBadFrame:
		return "malformed frame"
	case KindBadVersion:
		return "unsupported or unparsable protocol version"
	case KindKeyNotFound:
		return "key must exist"
	case KindEmptyCache:
		return "internal error: eviction policy invoked on an empty table"
	case KindModelInit:
		return "internal error: eviction model failed to initialize"
	case KindModelRun:
		return "internal error: eviction model inference failed"
	case KindStorageFull:
		return "storage backend has no space remaining"
	case KindTimedOut:
		return "read timed out"
	case KindWouldBlock:
		return "read would block"
	case KindOutOfMemory:
		return "internal error: out of memory"
	case KindLockPoisoned:
		return "internal error: a worker failed while holding a lock"
	default:
		return "internal error"
	}
}

func (k Kind) action() action {
	switch k {
	case KindKeyNotFound, KindStorageFull:
		return actionKeepConnection
	case KindBadFrame, KindBadVersion, KindTimedOut, KindWouldBlock:
		return actionSendQuitAndClose
	default:
		return actionCloseConnection
	}
}
