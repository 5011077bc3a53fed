package symbol

import (
	"crypto/ed25519"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // part of the address format
	"golang.org/x/crypto/sha3"
)

const (
	privateKeySize   = 32
	addressDecodedSz = 24
	checksumSize     = 3
)

// Account is a key pair bound to a network. The private key never leaves
// the struct.
type Account struct {
	PublicKey   string      `json:"publicKey"`
	Address     string      `json:"address"`
	NetworkType NetworkType `json:"networkType"`

	privateKey ed25519.PrivateKey
}

// NewAccountFromPrivateKey derives the account for a 64 hex char private key.
func NewAccountFromPrivateKey(privateKey string, networkType NetworkType) (*Account, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(privateKey))
	if err != nil {
		return nil, fmt.Errorf("private key is not valid hex: %w", err)
	}
	if len(seed) != privateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", privateKeySize, len(seed))
	}

	key := ed25519.NewKeyFromSeed(seed)
	publicKey := key.Public().(ed25519.PublicKey)

	return &Account{
		PublicKey:   strings.ToUpper(hex.EncodeToString(publicKey)),
		Address:     AddressFromPublicKey(publicKey, networkType),
		NetworkType: networkType,
		privateKey:  key,
	}, nil
}

// AddressFromPublicKey builds the 39 char base32 address:
// network byte, RIPEMD160(SHA3-256(publicKey)), 3 byte SHA3-256 checksum.
func AddressFromPublicKey(publicKey []byte, networkType NetworkType) string {
	keyHash := sha3.Sum256(publicKey)
	ripemd := ripemd160.New()
	ripemd.Write(keyHash[:])

	decoded := make([]byte, 0, addressDecodedSz)
	decoded = append(decoded, byte(networkType))
	decoded = ripemd.Sum(decoded)

	checksum := sha3.Sum256(decoded)
	decoded = append(decoded, checksum[:checksumSize]...)

	return strings.TrimRight(base32.StdEncoding.EncodeToString(decoded), "=")
}

// DecodeAddress validates a base32 address and returns its raw bytes.
func DecodeAddress(address string) ([]byte, error) {
	address = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(address), "-", ""))
	raw, err := base32.StdEncoding.DecodeString(address + "=")
	if err != nil {
		return nil, fmt.Errorf("address %s is not valid base32: %w", address, err)
	}
	if len(raw) != addressDecodedSz {
		return nil, fmt.Errorf("address %s has invalid length", address)
	}
	checksum := sha3.Sum256(raw[:addressDecodedSz-checksumSize])
	for i := 0; i < checksumSize; i++ {
		if raw[addressDecodedSz-checksumSize+i] != checksum[i] {
			return nil, fmt.Errorf("address %s has invalid checksum", address)
		}
	}
	return raw, nil
}

// Sign signs data with the account key.
func (a *Account) Sign(data []byte) []byte {
	return ed25519.Sign(a.privateKey, data)
}

// Verify checks a signature produced by Sign.
func (a *Account) Verify(data, signature []byte) bool {
	publicKey, err := hex.DecodeString(a.PublicKey)
	if err != nil {
		return false
	}
	return ed25519.Verify(publicKey, data, signature)
}

func (a *Account) String() string {
	return a.Address
}
