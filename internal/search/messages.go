package search

import (
	"fmt"

	"github.com/nexus-sus/nexus/internal/errors"
)

// User-visible messages. Exactly one is shown at a time.
const (
	MsgInvalidCode = "Por favor, insira um estado válido (2 letras)."
	MsgRateLimited = "Muitas buscas em pouco tempo. Aguarde."
	MsgTransport   = "Falha na comunicação com o servidor."
)

// Message maps an error from ParseCode or a Lookuper to the message the
// user sees. User-facing errors are input problems; anything that is
// neither that nor a rate limit is reported as a generic communication
// failure.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.ErrInvalidRegionCode), errors.IsUserFacing(err):
		return MsgInvalidCode
	case errors.Is(err, errors.ErrRateLimited):
		return MsgRateLimited
	default:
		return MsgTransport
	}
}

// NotFoundMessage is the empty-result notice for code.
func NotFoundMessage(code string) string {
	return fmt.Sprintf("Nenhum dado encontrado para \"%s\".", code)
}
