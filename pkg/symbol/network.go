package symbol

import (
	"fmt"
	"strings"
)

// NetworkType is the one byte network identifier baked into every address.
type NetworkType uint8

const (
	MainNet NetworkType = 104
	TestNet NetworkType = 152
)

func (n NetworkType) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(n))
	}
}

// ParseNetworkType accepts the numeric identifier reported by /node/info.
func ParseNetworkType(identifier int) (NetworkType, error) {
	if identifier >= 0 && identifier <= 255 {
		switch nt := NetworkType(identifier); nt {
		case MainNet, TestNet:
			return nt, nil
		}
	}
	return 0, fmt.Errorf("unsupported network identifier: %d", identifier)
}

// ParseNetworkName maps "mainnet"/"testnet" to a NetworkType.
func ParseNetworkName(name string) (NetworkType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mainnet", "main_net":
		return MainNet, nil
	case "testnet", "test_net":
		return TestNet, nil
	}
	return 0, fmt.Errorf("unsupported network name: %s", name)
}
