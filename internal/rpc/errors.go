package rpc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/goran-ethernal/ChainExporter/internal/common"
)

var (
	tooManyResultsRe = regexp.MustCompile(`(?i)(query returned more than \d+ results|too many results|limit exceeded)`)
	blockRangeRe     = regexp.MustCompile(`\[(0x[0-9a-fA-F]+),\s*(0x[0-9a-fA-F]+)\]`)
)

// IsTooManyResultsError reports whether the node rejected a log query for its result size.
// The second return value is the node's message, which may carry a suggested range.
func IsTooManyResultsError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		errData := fmt.Sprintf("%v", dataErr.ErrorData())
		if tooManyResultsRe.MatchString(errData) {
			return true, errData
		}
	}

	if tooManyResultsRe.MatchString(err.Error()) {
		return true, err.Error()
	}

	return false, ""
}

// ParseSuggestedBlockRange attempts to extract the suggested block range from the error message.
// Expected format: "Query returned more than 10000 results. Try with this block range [0x7dfd25, 0x7e0fcc]."
func ParseSuggestedBlockRange(msg string) (fromBlock, toBlock uint64, ok bool) {
	matches := blockRangeRe.FindStringSubmatch(msg)

	const expectedMatches = 3 // full match + 2 groups
	if len(matches) != expectedMatches {
		return 0, 0, false
	}

	from, err1 := common.ParseUint64orHex(&matches[1])
	to, err2 := common.ParseUint64orHex(&matches[2])
	if err1 != nil || err2 != nil || from > to {
		return 0, 0, false
	}

	return from, to, true
}

// IsConnectionError reports whether err means the node connection is gone.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, rpc.ErrClientQuit) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "websocket: close") ||
		strings.Contains(errStr, "broken pipe")
}
