package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/metrics"
)

// Client reads reference data from a remote PlanillaBus backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c Client) FareProfilesByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	q := url.Values{}
	q.Set("ruta_id", strconv.FormatInt(routeID, 10))
	body, err := c.get(ctx, "/rutas/perfiles-rutas/por_ruta/?"+q.Encode(), "perfiles de ruta")
	if err != nil {
		return nil, err
	}
	profiles, err := DecodeFareProfiles(body)
	if err != nil {
		return nil, domain.UnavailableError{Resource: "perfiles de ruta", Err: err}
	}
	return profiles, nil
}

func (c Client) Manifest(ctx context.Context, id int64) (models.Manifest, error) {
	body, err := c.get(ctx, fmt.Sprintf("/planillas/planillas/%d/", id), "planilla")
	if err != nil {
		return models.Manifest{}, err
	}
	m, err := DecodeManifest(body)
	if err != nil {
		return models.Manifest{}, domain.UnavailableError{Resource: "planilla", Err: err}
	}
	return m, nil
}

func (c Client) get(ctx context.Context, path, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, domain.InternalError{Msg: "no se pudo construir la solicitud", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		metrics.UpstreamCall(resource, "transport_error")
		return nil, domain.UnavailableError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.UpstreamCall(resource, "transport_error")
		return nil, domain.UnavailableError{Resource: resource, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamCall(resource, "not_found")
		return nil, domain.NotFoundError{Resource: resource}
	case resp.StatusCode >= 300:
		metrics.UpstreamCall(resource, "bad_status")
		return nil, domain.UnavailableError{Resource: resource, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	metrics.UpstreamCall(resource, "ok")
	return body, nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
