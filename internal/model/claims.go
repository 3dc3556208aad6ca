package model

// TokenClaims are the self-contained capability claims embedded in an
// issued token: which brain it authorizes access to, under which
// tenant, bound to which actor for audit purposes.
type TokenClaims struct {
	BrainID  BrainID
	TenantID TenantID
	ActorID  ActorID
}
