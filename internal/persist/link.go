package persist

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lunchtime-bot/internal/catalog"
	"lunchtime-bot/internal/order"
)

// EncodeQuery renders a selection as a query string, one parameter per filled
// slot, in the fixed category order. An empty selection yields "".
func EncodeQuery(sel order.Selection) string {
	values := url.Values{}
	for _, c := range catalog.Categories() {
		if d := sel.Get(c); d != nil {
			values.Set(string(c), d.Keyword)
		}
	}
	return values.Encode()
}

// ApplyQuery overlays a query string onto a base selection. The query is
// partial: only the categories it names are touched, and for those the query
// wins over the base. Unknown parameters and keywords that do not resolve are
// ignored.
func ApplyQuery(base order.Selection, query string, provider *catalog.Provider) (order.Selection, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order query: %w", err)
	}

	sel := base.Clone()
	for _, c := range catalog.Categories() {
		keyword := values.Get(string(c))
		if keyword == "" {
			continue
		}
		dish, ok := provider.ByKeyword(keyword)
		if !ok || dish.Category != c {
			continue
		}
		d := dish
		sel[c] = &d
	}
	return sel, nil
}

// Signer issues and checks signed share tokens so an order can travel outside
// Telegram without exposing a guessable link.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a token signer. Tokens expire after ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

type shareClaims struct {
	Query string `json:"query"`
	jwt.RegisteredClaims
}

// Sign wraps an order query string in a signed token.
func (s *Signer) Sign(query string) (string, error) {
	now := time.Now()
	claims := shareClaims{
		Query: query,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// Verify checks a share token and returns the order query it carries.
func (s *Signer) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &shareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse share token: %w", err)
	}

	claims, ok := token.Claims.(*shareClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid share token")
	}
	return claims.Query, nil
}
