package types

// TokenClaims carries the identity extracted from a validated token.
type TokenClaims struct {
	UserID uint
}
