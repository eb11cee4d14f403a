package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jalexanderII/zero-todo/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TodoClient calls the to-do HTTP API on behalf of one signed-in user.
type TodoClient struct {
	// BaseURL of the API, without trailing slash
	BaseURL string
	// Token is sent as "Authorization: Bearer <Token>"
	Token string
	H     *http.Client
	L     logrus.FieldLogger
}

func NewTodoClient(baseURL, token string, l logrus.FieldLogger) *TodoClient {
	return &TodoClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		H:       &http.Client{Timeout: 10 * time.Second},
		L:       l,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (t *TodoClient) ListAll(ctx context.Context) ([]models.TodoList, error) {
	var lists []models.TodoList
	if err := t.do(ctx, http.MethodGet, "/api/lists", nil, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []models.TodoList{}
	}
	return lists, nil
}

func (t *TodoClient) CreateList(ctx context.Context, title string, description *string) (*models.TodoList, error) {
	var list models.TodoList
	body := models.CreateListRequest{Title: title, Description: description}
	if err := t.do(ctx, http.MethodPost, "/api/lists", body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (t *TodoClient) DeleteList(ctx context.Context, listID string) error {
	return t.do(ctx, http.MethodDelete, "/api/lists/"+url.PathEscape(listID), nil, nil)
}

func (t *TodoClient) AddItem(ctx context.Context, listID, title string) (*models.TodoItem, error) {
	var item models.TodoItem
	path := "/api/lists/" + url.PathEscape(listID) + "/items"
	if err := t.do(ctx, http.MethodPost, path, models.AddItemRequest{Title: title}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *TodoClient) ToggleItem(ctx context.Context, itemID string) (*models.TodoItem, error) {
	var item models.TodoItem
	path := "/api/items/" + url.PathEscape(itemID) + "/toggle"
	if err := t.do(ctx, http.MethodPatch, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *TodoClient) DeleteItem(ctx context.Context, itemID string) error {
	return t.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(itemID), nil, nil)
}

// do sends one request and decodes the data field of the response envelope into out.
func (t *TodoClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.BaseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	resp, err := t.H.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "%s %s: decode response (status %d)", method, path, resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		err = statusError(resp.StatusCode, env)
		t.L.WithError(err).WithField("path", path).Debug("[TodoClient] request failed")
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decode data")
}

// statusError maps a failed response back to the errors the service layer returns.
func statusError(status int, env envelope) error {
	switch status {
	case http.StatusBadRequest:
		verr := &models.ValidationError{}
		if err := json.Unmarshal(env.Data, &verr.Fields); err != nil || len(verr.Fields) == 0 {
			verr.Fields = nil
			verr.Add("body", env.Message)
		}
		return verr
	case http.StatusNotFound:
		return errors.Wrap(models.ErrForbidden, env.Message)
	case http.StatusUnauthorized:
		return errors.Wrap(models.ErrUnauthenticated, env.Message)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, env.Message)
	}
}
