package mocks

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/stretchr/testify/mock"
	"photoshare/pkg/api"
)

// Backend is a testify mock of api.Backend. A non-nil second return value
// given to Return is JSON-encoded into the out argument of the call.
type Backend struct {
	mock.Mock
}

func (m *Backend) Get(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query)
	return fill(args, out)
}

func (m *Backend) PostJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	args := m.Called(ctx, path, query, body)
	return fill(args, out)
}

func (m *Backend) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	args := m.Called(ctx, path, form)
	return fill(args, out)
}

func (m *Backend) Multipart(ctx context.Context, method, path string, query url.Values, fields map[string]string, files []api.File, out any) error {
	args := m.Called(ctx, method, path, query, fields, files)
	return fill(args, out)
}

func (m *Backend) Delete(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path)
	return fill(args, out)
}

func fill(args mock.Arguments, out any) error {
	if err := args.Error(0); err != nil {
		return err
	}
	if len(args) > 1 && args.Get(1) != nil && out != nil {
		data, err := json.Marshal(args.Get(1))
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
	return nil
}
