package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/tna-cash/treatsend/pkg/logger"
)

// ErrInvalidMnemonic is returned when the phrase fails BIP-39
// wordlist/checksum validation.
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// Wallet holds the key material derived from a mnemonic at the NIP-06
// path m/44'/1237'/0'/0/0. It is immutable after Load and is never
// persisted anywhere.
type Wallet struct {
	PrivateKey string // hex
	PublicKey  string // hex
	Nsec       string
	Npub       string
}

// Load validates the mnemonic and derives the session wallet.
// Derivation is deterministic: the same phrase always yields the same
// key material and encodings.
func Load(mnemonic string) (*Wallet, error) {
	words := strings.Join(strings.Fields(mnemonic), " ")
	if words == "" {
		return nil, ErrInvalidMnemonic
	}
	if !nip06.ValidateWords(words) {
		return nil, ErrInvalidMnemonic
	}

	seed := nip06.SeedFromWords(words)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to derive private key: %w", err)
	}

	pub, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to compute public key: %w", err)
	}

	nsec, err := nip19.EncodePrivateKey(sk)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nsec: %w", err)
	}
	npub, err := nip19.EncodePublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode npub: %w", err)
	}

	logger.InfoCF("wallet", "Wallet loaded", map[string]interface{}{
		"npub": npub,
	})

	return &Wallet{
		PrivateKey: sk,
		PublicKey:  pub,
		Nsec:       nsec,
		Npub:       npub,
	}, nil
}

// DecodeNpub converts a bech32 npub into the hex public key used on
// the wire.
func DecodeNpub(npub string) (string, error) {
	prefix, value, err := nip19.Decode(strings.TrimSpace(npub))
	if err != nil {
		return "", fmt.Errorf("failed to decode npub: %w", err)
	}
	if prefix != "npub" {
		return "", fmt.Errorf("expected an npub, got %q", prefix)
	}
	pub, ok := value.(string)
	if !ok || pub == "" {
		return "", errors.New("npub decoded to an empty key")
	}
	return pub, nil
}
