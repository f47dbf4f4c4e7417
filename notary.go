package gatekeeper

import (
	"errors"
	"sync"
	"time"

	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

var (
	ErrInvalidToken     = errors.New("Invalid token")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrTokenExpired     = errors.New("Token expired")
)

type notaryOpt func(*notary)

func WithAlgorithm(alg jose.SignatureAlgorithm) notaryOpt {
	return func(self *notary) {
		self.Algorithm = alg
	}
}

func WithClock(now func() time.Time) notaryOpt {
	return func(self *notary) {
		self.Now = now
	}
}

func WithLeeway(leeway time.Duration) notaryOpt {
	return func(self *notary) {
		self.Leeway = leeway
	}
}

// NewNotary returns a notary that signs and verifies tokens with the given
// shared secret.
func NewNotary(secret string, opts ...notaryOpt) *notary {
	notary := &notary{
		Secret:    []byte(secret),
		Algorithm: jose.HS256,
		Now:       time.Now,
		Leeway:    jwt.DefaultLeeway,
	}

	for _, opt := range opts {
		opt(notary)
	}

	return notary
}

type notary struct {
	sync.Mutex

	Secret    []byte
	Algorithm jose.SignatureAlgorithm
	Now       func() time.Time
	Leeway    time.Duration

	cached jose.Signer
}

// Sign serializes the user as a compact JWS. The issued-at claim is always
// set from the notary's clock.
func (self *notary) Sign(user User) (string, error) {

	signer, err := self.signer()
	if err != nil {
		return "", err
	}

	user.IssuedAt = jwt.NewNumericDate(self.Now())

	return jwt.Signed(signer).Claims(user).CompactSerialize()
}

func (self *notary) Notarize(token string) (*User, error) {

	parsed, err := jwt.ParseSigned(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if len(parsed.Headers) != 1 || parsed.Headers[0].Algorithm != string(self.Algorithm) {
		return nil, ErrInvalidToken
	}

	var claims jwt.Claims
	var user User

	if err = parsed.Claims(self.Secret, &claims, &user); err != nil {
		return nil, ErrInvalidSignature
	}

	if err = claims.ValidateWithLeeway(jwt.Expected{Time: self.Now()}, self.Leeway); err != nil {
		return nil, ErrTokenExpired
	}

	return &user, nil
}

func (self *notary) signer() (jose.Signer, error) {
	self.Lock()
	defer self.Unlock()

	if self.cached != nil {
		return self.cached, nil
	}

	signingKey := jose.SigningKey{Algorithm: self.Algorithm, Key: self.Secret}

	signer, err := jose.NewSigner(signingKey, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return nil, err
	}

	self.cached = signer
	return signer, nil
}
