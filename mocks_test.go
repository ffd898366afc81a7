package auth_test

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-router"
)

// stubContext implements the handful of router.Context methods the auth
// handlers touch. The embedded interface satisfies the rest; calling an
// unstubbed method panics, which is what a test should do anyway.
type routerContext = router.Context

type stubContext struct {
	routerContext

	headers map[string]string
	params  map[string]string
	locals  map[any]any
	body    []byte

	reqCtx context.Context

	status  int
	payload any
}

func newStubContext() *stubContext {
	return &stubContext{
		headers: map[string]string{},
		params:  map[string]string{},
		locals:  map[any]any{},
		reqCtx:  context.Background(),
	}
}

func (c *stubContext) Context() context.Context {
	return c.reqCtx
}

func (c *stubContext) SetContext(ctx context.Context) {
	c.reqCtx = ctx
}

func (c *stubContext) GetString(key string, defaultValue string) string {
	if v, ok := c.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (c *stubContext) Param(key string, defaultValue ...string) string {
	if v, ok := c.params[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *stubContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		c.locals[key] = value[0]
		return value[0]
	}
	return c.locals[key]
}

func (c *stubContext) Bind(i any) error {
	return json.Unmarshal(c.body, i)
}

func (c *stubContext) JSON(code int, val any) error {
	c.status = code
	c.payload = val
	return nil
}
