package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/participa-df/ouvidoria/internal/domain"
)

var tracer = otel.Tracer("identity")

// Context keys for the citizen identified by the external identity provider.
const (
	CidadaoCtxKey = "ouvidoria-cidadao"
)

// Headers set by the gateway in front of this service after the external
// identity provider authenticates the citizen. Absent headers simply mean an
// unidentified (possibly anonymous) requester; nothing is enforced here.
const (
	CidadaoIDHeader    = "X-Cidadao-Id"
	CidadaoNomeHeader  = "X-Cidadao-Nome"
	CidadaoEmailHeader = "X-Cidadao-Email"
)

type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

// IdentifyCidadao lifts the gateway identity headers into the request
// context so the ingestion path can attach citizen data to non-anonymous
// manifestations.
func (m *IdentityMiddleware) IdentifyCidadao(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Identity.Middleware.IdentifyCidadao")
		defer span.End()

		id := c.Request().Header.Get(CidadaoIDHeader)
		if id != "" {
			cidadao := domain.Cidadao{
				ID:    id,
				Nome:  c.Request().Header.Get(CidadaoNomeHeader),
				Email: c.Request().Header.Get(CidadaoEmailHeader),
			}
			ctx = context.WithValue(ctx, CidadaoCtxKey, cidadao)
			span.SetAttributes(attribute.String("CidadaoId", id))
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// CidadaoFromContext returns the identified citizen, if any.
func CidadaoFromContext(ctx context.Context) *domain.Cidadao {
	cidadao, ok := ctx.Value(CidadaoCtxKey).(domain.Cidadao)
	if !ok {
		return nil
	}
	return &cidadao
}
