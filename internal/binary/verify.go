package binary

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks downloaded artifacts against OpenPGP detached signatures
// made by a key in its keyring.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier for an already parsed keyring.
func NewVerifier(keyring openpgp.EntityList) (*Verifier, error) {
	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}
	return &Verifier{keyring: keyring}, nil
}

// LoadVerifier reads an armored or binary keyring from keyringPath.
func LoadVerifier(keyringPath string) (*Verifier, error) {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return nil, err
	}
	return NewVerifier(keyring)
}

// VerifyFile checks the file at path against signature, trying the armored
// encoding first and the binary encoding second.
func (v *Verifier) VerifyFile(path string, signature []byte) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, file, bytes.NewReader(signature), nil)
	if err != nil {
		// Try non-armored signature
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind file: %w", seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(v.keyring, file, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring loads a GPG keyring from disk
func loadKeyring(keyringPath string) (openpgp.EntityList, error) {
	keyringFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		// Try reading as non-armored keyring
		if _, seekErr := keyringFile.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}
