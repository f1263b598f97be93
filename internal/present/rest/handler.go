package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
	"github.com/participa-df/ouvidoria/internal/present/rest/middleware"
	"github.com/participa-df/ouvidoria/internal/present/rest/presenter"
	"github.com/participa-df/ouvidoria/internal/service"
	"github.com/participa-df/ouvidoria/internal/upload"
	"github.com/participa-df/ouvidoria/internal/usecase"
)

type Handler struct {
	manifestation *usecase.ManifestationUsecase
	anexo         *usecase.AnexoUsecase
	signal        *service.SignalService
}

func NewHandler(
	manifestation *usecase.ManifestationUsecase,
	anexo *usecase.AnexoUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		manifestation: manifestation,
		anexo:         anexo,
		signal:        signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/manifestacao", h.handleSubmit)
	e.GET("/api/manifestacao/:id", h.handleDetail)
	e.GET("/api/anexos/:id", h.handleAnexo)
	e.GET("/api/realtime", h.handleRealtime)
}

func (h *Handler) handleSubmit(c echo.Context) error {
	ctx := c.Request().Context()

	assunto := c.FormValue("assunto")
	conteudo := c.FormValue("conteudo")
	// Only the literal string "true" opts into anonymity.
	anonimo := c.FormValue("anonimo") == "true"

	input := usecase.IngestInput{
		Assunto:  assunto,
		Conteudo: conteudo,
		Anonimo:  anonimo,
	}

	if !anonimo {
		input.Cidadao = middleware.CidadaoFromContext(ctx)
	}

	audioHeader, err := c.FormFile("audio")
	if err == nil && audioHeader != nil {
		audio, err := audioHeader.Open()
		if err != nil {
			return presenter.InternalError(c, err)
		}
		defer audio.Close()
		input.Audio = audio
	}

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["anexos"] {
			mediaType := fh.Header.Get("Content-Type")
			// Same rules the form applies; rejected parts are skipped, the
			// rest of the batch goes through.
			if err := upload.Validate(fh.Filename, mediaType, fh.Size); err != nil {
				slog.InfoContext(
					ctx, "Anexo rejected",
					slog.String("name", fh.Filename),
					slog.String("error", err.Error()),
					slog.String("module", "rest"),
				)
				continue
			}
			f, err := fh.Open()
			if err != nil {
				return presenter.InternalError(c, err)
			}
			opened = append(opened, f)
			input.Anexos = append(input.Anexos, usecase.AnexoInput{
				Name:      fh.Filename,
				MediaType: mediaType,
				SizeBytes: fh.Size,
				Content:   f,
			})
		}
	}

	result, err := h.manifestation.Ingest(ctx, input)
	if err != nil {
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			return presenter.Invalid(c, verr)
		}
		return presenter.InternalError(c, err)
	}

	return presenter.Created(c, ouvidoria.SubmitResponse{
		Protocolo: result.Protocolo,
		Status:    ouvidoria.StatusRecebido,
		Manifestacao: ouvidoria.ManifestacaoEcho{
			Assunto:          result.Assunto,
			Conteudo:         result.Conteudo,
			Anonimo:          result.Anonimo,
			PossuiAudio:      result.PossuiAudio,
			QuantidadeAnexos: result.QuantidadeAnexos,
		},
	})
}

func (h *Handler) handleDetail(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if id == "" {
		return presenter.BadRequest(c, "identificador inválido")
	}

	m, err := h.manifestation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "Manifestação não encontrada")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, m)
}

func (h *Handler) handleAnexo(c echo.Context) error {
	ctx := c.Request().Context()

	stream, anexo, err := h.anexo.GetStream(ctx, c.Param("id"))
	if err != nil {
		var nf domain.NotFoundError
		if errors.As(err, &nf) {
			if nf.Resource == "arquivo do anexo" {
				return presenter.NotFound(c, "Arquivo do anexo não encontrado no servidor")
			}
			return presenter.NotFound(c, "Anexo não encontrado")
		}
		return presenter.InternalError(c, err)
	}
	defer stream.Close()

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename=%q`, anexo.NomeOriginal),
	)

	contentType := anexo.Tipo
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, stream)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type      string   `json:"type"`
	Protocols []string `json:"protocols"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan ouvidoria.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Protocols
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Protocols),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
