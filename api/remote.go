/*
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/server"
	"github.com/pkg/errors"
)

// A RemoteClient sends expressions to a ninecc compile service.
type RemoteClient struct {
	target Target
	http   *http.Client

	// Retries is how many times a refused or reset connection is retried,
	// waiting Backoff, then twice that, and so on between attempts.
	Retries int
	Backoff time.Duration
}

func (client *RemoteClient) Open(target Target) error {
	client.target = target
	client.http = &http.Client{Timeout: 30 * time.Second}
	client.Retries = 3
	client.Backoff = time.Second
	return nil
}

func (client *RemoteClient) Close() error {
	client.http.CloseIdleConnections()
	return nil
}

func retryable(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.EOF)
}

func (client *RemoteClient) post(ctx context.Context, path, expr string) (int, []byte, error) {
	var resp *http.Response
	var err error

	for i := 0; ; i++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, client.target.Address+path, strings.NewReader(expr))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "text/plain")

		resp, err = client.http.Do(req)
		if err == nil || !retryable(err) || i >= client.Retries {
			break
		}

		delay := time.Duration(math.Exp2(float64(i))) * client.Backoff
		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return 0, nil, errors.Wrapf(err, "unable to reach %s", client.target.Address)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "unable to read response")
	}

	return resp.StatusCode, body, nil
}

// decodeError turns a failed response back into an error, restoring the
// diagnostic for syntax errors.
func decodeError(code int, body []byte) error {
	e := server.ErrResponse{}
	if err := json.Unmarshal(body, &e); err != nil {
		return errors.Errorf("server returned %d: %s", code, strings.TrimSpace(string(body)))
	}

	if e.Kind == parse.SyntaxError.ToString() && e.Offset >= 0 {
		return parse.NewSyntaxErrorAt(e.Offset, e.Message)
	}
	return errors.Errorf("server returned %d: %s: %s", code, e.Kind, e.Message)
}

// Compile an expression on the server.
func (client *RemoteClient) Compile(ctx context.Context, expr string) (string, error) {
	code, body, err := client.post(ctx, "/compile", expr)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK {
		return "", decodeError(code, body)
	}

	return string(body), nil
}

// Run an expression on the server's simulator.
func (client *RemoteClient) Run(ctx context.Context, expr string) (Result, error) {
	code, body, err := client.post(ctx, "/run", expr)
	if err != nil {
		return Result{}, err
	}
	if code != http.StatusOK {
		return Result{}, decodeError(code, body)
	}

	r := server.RunResponse{}
	if err := json.Unmarshal(body, &r); err != nil {
		return Result{}, errors.Wrap(err, "unable to unmarshal run response")
	}

	return Result{Value: r.Value, Status: r.Status, Assembly: r.Assembly}, nil
}
