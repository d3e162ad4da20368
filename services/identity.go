package services

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated participant handed to the session core
// by the auth collaborator. The core never issues or refreshes it.
type Identity struct {
	Id       string
	Username string
	AvatarId string
}

type IdentityResolver interface {
	Resolve(ticket string) (Identity, error)
}

var InvalidTicket = errors.New("ticket is not valid")

// JWTIdentityResolver verifies HS256 tickets minted by the auth
// service and extracts the identity claims. Verification only; token
// issuance stays outside this service.
type JWTIdentityResolver struct {
	secret []byte
}

func NewJWTIdentityResolver(secret string) JWTIdentityResolver {
	return JWTIdentityResolver{secret: []byte(secret)}
}

func (resolver JWTIdentityResolver) Resolve(ticket string) (Identity, error) {
	token, err := jwt.Parse(ticket, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return resolver.secret, nil
	})

	if err != nil || !token.Valid {
		return Identity{}, InvalidTicket
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Identity{}, InvalidTicket
	}

	identity := Identity{}

	if sub, ok := claims["sub"].(string); ok {
		identity.Id = sub
	}
	if username, ok := claims["username"].(string); ok {
		identity.Username = username
	}
	if avatarId, ok := claims["avatarId"].(string); ok {
		identity.AvatarId = avatarId
	}

	if identity.Id == "" {
		return Identity{}, InvalidTicket
	}

	return identity, nil
}
