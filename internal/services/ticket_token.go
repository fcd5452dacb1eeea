package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const ticketTokenIssuer = "planillabus"

// TicketClaims is what the code printed on an e-ticket carries.
type TicketClaims struct {
	TicketID   int64   `json:"tid"`
	ManifestID int64   `json:"pid"`
	Seats      int     `json:"asientos"`
	Total      float64 `json:"total"`
	jwt.RegisteredClaims
}

// TicketTokens signs and checks e-ticket verification codes (HS256).
type TicketTokens struct {
	Secret []byte
	Now    func() time.Time
}

func (t TicketTokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t TicketTokens) Sign(tk models.Ticket) (string, error) {
	if len(t.Secret) == 0 {
		return "", domain.InternalError{Msg: "TICKET_TOKEN_SECRET no configurado"}
	}
	claims := TicketClaims{
		TicketID:   tk.ID,
		ManifestID: tk.ManifestID,
		Seats:      tk.Seats,
		Total:      tk.Total,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ticketTokenIssuer,
			Subject:  strconv.FormatInt(tk.ID, 10),
			IssuedAt: jwt.NewNumericDate(t.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "no se pudo firmar el tiquete", Err: err}
	}
	return signed, nil
}

// Verify returns the claims of a token signed by Sign. Tampered, foreign or
// malformed tokens are validation errors.
func (t TicketTokens) Verify(token string) (TicketClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TicketClaims{}, domain.ValidationError{Field: "token", Msg: "requerido"}
	}
	var claims TicketClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ticketTokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		msg := "código inválido"
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			msg = "firma inválida"
		}
		return TicketClaims{}, domain.ValidationError{Field: "token", Msg: msg, Err: err}
	}
	return claims, nil
}
