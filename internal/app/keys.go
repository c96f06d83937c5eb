package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hanriver/zipview/pkg/cryptox"
	"github.com/hanriver/zipview/pkg/idx"
	"github.com/hanriver/zipview/pkg/jwtx"
)

// initSigningKey establishes the process-wide signing key at startup. The key
// is loaded from AUTH_KEY_FILE when configured; otherwise an ephemeral
// Ed25519 key is generated, which invalidates all outstanding tokens on
// restart (acceptable for dev, configure a key file in prod).
func initSigningKey(cfg Config, logger *slog.Logger) (*jwtx.Signer, *jwtx.Verifier, error) {
	var pemKey []byte

	if cfg.KeyFile != "" {
		data, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read signing key file: %w", err)
		}
		pemKey = data
		logger.Info("signing key loaded", "path", cfg.KeyFile)
	} else {
		data, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		pemKey = data
		logger.Warn("using ephemeral signing key; tokens will not survive a restart")
	}

	signer, err := jwtx.NewSigner(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, nil, err
	}

	verifier := jwtx.NewVerifier(signer.Public(), cfg.Issuer, cfg.ClockSkewLeeway)
	return signer, verifier, nil
}
