package domain

type CtxKey string

const (
	KeyIdentityID   CtxKey = "IdentityID"
	KeyIdentityRole CtxKey = "Role"
)
