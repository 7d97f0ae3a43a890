// Package remote talks to the CRM's JSON REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"garage_crm/internal/usecase/interfaces"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer of the API. Message is the server's own
// explanation, suitable for users.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error status=%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error status=%d", e.StatusCode)
}

func (e *APIError) UserMessage() string { return e.Message }

// RestStore implements IRemoteStore over HTTP:
//
//	List   GET    /{collection}?filters
//	Create POST   /{collection}
//	Update PATCH  /{collection}/{id}
//	Delete DELETE /{collection}/{id}
type RestStore struct {
	client *resty.Client
}

var _ interfaces.IRemoteStore = (*RestStore)(nil)

func NewRestStore(baseURL, token string, timeout time.Duration) *RestStore {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &RestStore{client: c}
}

func (s *RestStore) List(ctx context.Context, collection string, filters map[string]string, out any) error {
	req := s.client.R().SetContext(ctx)
	if len(filters) > 0 {
		req.SetQueryParams(filters)
	}
	resp, err := req.Get(collectionPath(collection))
	if err != nil {
		log.Printf("[remote][rest] list failed collection=%s err=%v", collection, err)
		return fmt.Errorf("list %s: %w", collection, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return decodeList(collection, resp.Body(), out)
}

func (s *RestStore) Create(ctx context.Context, collection string, payload any, out any) error {
	resp, err := s.client.R().SetContext(ctx).SetBody(payload).Post(collectionPath(collection))
	if err != nil {
		log.Printf("[remote][rest] create failed collection=%s err=%v", collection, err)
		return fmt.Errorf("create %s: %w", collection, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return decodeEntity(resp.Body(), out)
}

func (s *RestStore) Update(ctx context.Context, collection string, id string, patch map[string]any, out any) error {
	resp, err := s.client.R().SetContext(ctx).SetBody(patch).Patch(entityPath(collection, id))
	if err != nil {
		log.Printf("[remote][rest] update failed collection=%s id=%s err=%v", collection, id, err)
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return decodeEntity(resp.Body(), out)
}

func (s *RestStore) Delete(ctx context.Context, collection string, id string) error {
	resp, err := s.client.R().SetContext(ctx).Delete(entityPath(collection, id))
	if err != nil {
		log.Printf("[remote][rest] delete failed collection=%s id=%s err=%v", collection, id, err)
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func collectionPath(collection string) string {
	return "/" + url.PathEscape(collection)
}

func entityPath(collection, id string) string {
	return collectionPath(collection) + "/" + url.PathEscape(id)
}

func apiError(resp *resty.Response) error {
	e := &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
	}
	log.Printf("[remote][rest] api error status=%d message=%q", e.StatusCode, e.Message)
	return e
}

// envelopeKeys lists the object keys a list response may wrap its rows in.
func envelopeKeys(collection string) []string {
	keys := []string{collection}
	if collection == interfaces.CollectionPriceInquiries {
		keys = append(keys, "priceInquiries", "inquiries")
	}
	return append(keys, "data", "items")
}

// decodeList accepts a bare array, an envelope such as {"jobs":[...],"total":3}
// or, for aggregate collections, a plain object.
func decodeList(collection string, body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || out == nil {
		return nil
	}
	if body[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("decode %s: %w", collection, err)
		}
		for _, k := range envelopeKeys(collection) {
			raw, ok := env[k]
			if ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '[' {
				body = raw
				break
			}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

func decodeEntity(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
