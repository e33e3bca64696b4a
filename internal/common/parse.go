package common

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ParseUint64orHex converts the given uint64 string into the number.
// It can parse the string with 0x prefix as well.
func ParseUint64orHex(val *string) (uint64, error) {
	if val == nil {
		return 0, nil
	}

	str := *val
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	return strconv.ParseUint(str, base, 64)
}

// ParseBigInt parses a decimal or 0x-prefixed hex string into a big.Int.
// An empty string parses to zero.
func ParseBigInt(val string) (*big.Int, error) {
	str := strings.TrimSpace(val)
	if str == "" {
		return new(big.Int), nil
	}

	base := 10
	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	n, ok := new(big.Int).SetString(str, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %q", val)
	}

	return n, nil
}

const bytesInMB = 1024 * 1024

func MBToBytes(mb uint64) uint64 {
	return mb * bytesInMB
}

func BytesToMB(bytes uint64) uint64 {
	return bytes / bytesInMB
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
