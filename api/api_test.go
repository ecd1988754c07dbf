/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dburkart/ninecc/pkg/codegen"
	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/dburkart/ninecc/pkg/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clients(t *testing.T) map[string]Client {
	t.Helper()

	ts := httptest.NewServer(server.New(zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)

	local, err := NewClient("local")
	require.NoError(t, err)

	remote, err := NewClient(ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { remote.Close() })

	return map[string]Client{"local": local, "remote": remote}
}

func TestClientRun(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			r, err := c.Run(context.Background(), "(1+2)*3")
			require.NoError(t, err)
			assert.Equal(t, int64(9), r.Value)
			assert.Equal(t, 9, r.Status)
			assert.Contains(t, r.Assembly, "  imul rax, rdi\n")

			r, err = c.Run(context.Background(), "0-1")
			require.NoError(t, err)
			assert.Equal(t, int64(-1), r.Value)
			assert.Equal(t, 255, r.Status)
		})
	}
}

func TestClientCompileMatches(t *testing.T) {
	cs := clients(t)

	local, err := cs["local"].Compile(context.Background(), "1<2==1")
	require.NoError(t, err)
	remote, err := cs["remote"].Compile(context.Background(), "1<2==1")
	require.NoError(t, err)

	assert.Equal(t, local, remote)
}

func TestClientSyntaxError(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Compile(context.Background(), "2 * (3")
			require.Error(t, err)

			perr, ok := parse.AsError(err)
			require.True(t, ok)
			assert.Equal(t, parse.SyntaxError, perr.Kind)
			assert.Equal(t, 6, perr.Offset())
			assert.Equal(t, "2 * (3\n      ^ expected ')'\n", perr.FormatError("2 * (3"))
		})
	}
}

func TestClientRuntimeError(t *testing.T) {
	for name, c := range clients(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Run(context.Background(), "1/0")
			require.Error(t, err)

			_, ok := parse.AsError(err)
			assert.False(t, ok)
		})
	}
}

func TestLocalClientEntry(t *testing.T) {
	c, err := NewClient("", codegen.WithEntry("start"))
	require.NoError(t, err)

	asm, err := c.Compile(context.Background(), "1")
	require.NoError(t, err)
	assert.Contains(t, asm, ".global start\nstart:\n")
}

func TestLocalClientCancelled(t *testing.T) {
	c, err := NewClient("local")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Compile(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}
