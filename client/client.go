// Package client is the HTTP client for a manifestation portal. It is what
// the wizard submits through, and what tracking pages read through.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/participa-df/ouvidoria"
	"github.com/participa-df/ouvidoria/internal/domain"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	client    *http.Client
	cache     *cache.Cache
	userAgent string
	baseURL   string
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:    &httpClient,
		cache:     cache.New(5*time.Minute, 10*time.Minute),
		userAgent: "ouvidoria-client",
		baseURL:   baseURL,
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// Submit posts a draft as multipart form data and returns the protocol the
// server assigned. Satisfies the wizard's submitter port.
func (c *Client) Submit(ctx context.Context, draft domain.Draft) (string, error) {

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	w.WriteField("assunto", draft.Assunto)
	w.WriteField("conteudo", draft.Conteudo)
	w.WriteField("anonimo", strconv.FormatBool(draft.Anonimo))

	if draft.Localizacao != nil {
		loc, err := json.Marshal(draft.Localizacao)
		if err != nil {
			return "", fmt.Errorf("failed to encode localizacao: %v", err)
		}
		w.WriteField("localizacao", string(loc))
	}

	if draft.Audio != nil {
		fw, err := createFilePart(w, "audio", "manifestacao.webm", draft.Audio.MimeType)
		if err != nil {
			return "", fmt.Errorf("failed to create audio part: %v", err)
		}
		if _, err := fw.Write(draft.Audio.Bytes); err != nil {
			return "", fmt.Errorf("failed to write audio part: %v", err)
		}
	}

	for _, anexo := range draft.Anexos {
		fw, err := createFilePart(w, "anexos", anexo.Name, anexo.MediaType)
		if err != nil {
			return "", fmt.Errorf("failed to create anexo part: %v", err)
		}
		if _, err := io.Copy(fw, anexo.Raw); err != nil {
			return "", fmt.Errorf("failed to write anexo %s: %v", anexo.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %v", err)
	}

	url := c.baseURL + "/api/manifestacao"
	req, err := http.NewRequestWithContext(ctx, "POST", url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", decodeError(resp)
	}

	var result ouvidoria.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	return result.Protocolo, nil
}

// GetManifestacao fetches a manifestation by id or protocol. Results are
// cached briefly so a tracking page polling the same protocol stays cheap.
func (c *Client) GetManifestacao(ctx context.Context, id string) (ouvidoria.ManifestacaoDetail, error) {

	cacheKey := "manifestacao:" + id
	x, found := c.cache.Get(cacheKey)
	if found {
		return x.(ouvidoria.ManifestacaoDetail), nil
	}

	url := c.baseURL + "/api/manifestacao/" + id
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return ouvidoria.ManifestacaoDetail{}, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ouvidoria.ManifestacaoDetail{}, fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ouvidoria.ManifestacaoDetail{}, decodeError(resp)
	}

	var detail ouvidoria.ManifestacaoDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return ouvidoria.ManifestacaoDetail{}, fmt.Errorf("failed to decode response: %v", err)
	}

	c.cache.Set(cacheKey, detail, cache.DefaultExpiration)

	return detail, nil
}

// GetAnexo streams an attachment's bytes. The caller owns the reader.
func (c *Client) GetAnexo(ctx context.Context, id string) (io.ReadCloser, string, error) {

	url := c.baseURL + "/api/anexos/" + id
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to perform request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", decodeError(resp)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func createFilePart(w *multipart.Writer, field, filename, mediaType string) (io.Writer, error) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", mediaType)
	return w.CreatePart(header)
}

func decodeError(resp *http.Response) error {
	var errRes ouvidoria.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errRes); err != nil || errRes.Erro == "" {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if len(errRes.Detalhes) > 0 {
		return fmt.Errorf("%s: %s %s", errRes.Erro, errRes.Detalhes[0].Campo, errRes.Detalhes[0].Mensagem)
	}
	return fmt.Errorf("%s", errRes.Erro)
}
