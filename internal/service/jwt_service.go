package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTService emite y valida los access tokens que identifican a un usuario.
// La API acepta peticiones anonimas; el token solo liga el animo y las conversaciones a un usuario.
type JWTService struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
	audience  string
}

// Identity es el usuario autenticado de una peticion.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Claims struct {
	UserID      string `json:"uid"`
	DisplayName string `json:"display_name,omitempty"`
	TokenType   string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrJWTInvalid = errors.New("jwt invalid")
	ErrJWTExpired = errors.New("jwt expired")
)

const tokenTypeAccess = "access"

func NewJWTService(secret, issuer, audience string, accessTTL time.Duration) *JWTService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = "mindcare-bot"
	}
	return &JWTService{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		issuer:    issuer,
		audience:  strings.TrimSpace(audience),
	}
}

// Enabled indica si hay secreto configurado.
func (s *JWTService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

func (s *JWTService) IssueAccessToken(id Identity) (AccessToken, error) {
	if !s.Enabled() {
		return AccessToken{}, ErrJWTInvalid
	}
	id.UserID = strings.TrimSpace(id.UserID)
	if id.UserID == "" {
		return AccessToken{}, ErrJWTInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID:      id.UserID,
		DisplayName: strings.TrimSpace(id.DisplayName),
		TokenType:   tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	if s.audience != "" {
		claims.Audience = jwt.ClaimStrings{s.audience}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{
		AccessToken: signed,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *JWTService) ParseAccessToken(accessToken string) (Identity, error) {
	if !s.Enabled() {
		return Identity{}, ErrJWTInvalid
	}
	if strings.TrimSpace(accessToken) == "" {
		return Identity{}, ErrJWTInvalid
	}
	claims, err := s.parseToken(accessToken)
	if err != nil {
		return Identity{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Identity{}, ErrJWTInvalid
	}
	if !s.isValidClaims(claims) {
		return Identity{}, ErrJWTInvalid
	}
	return Identity{UserID: claims.UserID, DisplayName: claims.DisplayName}, nil
}

func (s *JWTService) parseToken(tokenString string) (Claims, error) {
	var claims Claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}
	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrJWTInvalid
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.UserID) == "" {
		return false
	}
	return claims.Subject == claims.UserID
}
