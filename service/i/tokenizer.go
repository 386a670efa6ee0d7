package i

import (
	"time"
)

// Tokenizer issues and verifies the tokens that grant access to a game session.
type Tokenizer interface {
	// Generate signs a token carrying claims that expires after expTime.
	Generate(claims map[string]interface{}, expTime time.Duration) (string, error)

	// Decode verifies a token and returns its claims. Expired, tampered or foreign
	// tokens are errors.
	Decode(token string) (map[string]interface{}, error)
}
