package presenter

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
)

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Created wraps a created-resource acknowledgment.
func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

// BadRequest reports a malformed request with a generic message.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ouvidoria.ErrorResponse{Erro: msg})
}

// Invalid reports a rejected submission listing every failing field.
func Invalid(c echo.Context, verr domain.ValidationError) error {
	detalhes := make([]ouvidoria.Issue, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		detalhes = append(detalhes, ouvidoria.Issue{Campo: issue.Campo, Mensagem: issue.Mensagem})
	}
	return c.JSON(http.StatusBadRequest, ouvidoria.ErrorResponse{
		Erro:     "Dados inválidos",
		Detalhes: detalhes,
	})
}

// NotFound maps a missing resource to 404.
func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ouvidoria.ErrorResponse{Erro: msg})
}

// InternalError logs the full failure server-side and answers with a generic
// message. Internal details never reach the caller.
func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(
		c.Request().Context(), "Internal error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusInternalServerError, ouvidoria.ErrorResponse{Erro: "Erro interno do servidor"})
}
