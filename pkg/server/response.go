/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"net/http"

	"github.com/dburkart/ninecc/pkg/common/parse"
	"github.com/rs/zerolog"
)

type ErrResponse struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Offset     int    `json:"offset"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

type RunResponse struct {
	Value    int64  `json:"value"`
	Status   int    `json:"status"`
	Assembly string `json:"assembly"`
}

// SyntaxErrResponse describes a failed compile of input.
func SyntaxErrResponse(e *parse.Error, input string) ErrResponse {
	return ErrResponse{
		Kind:       e.Kind.ToString(),
		Message:    e.Message,
		Offset:     e.Offset(),
		Diagnostic: e.FormatError(input),
	}
}

func GenericErrResponse(kind string, err error) ErrResponse {
	return ErrResponse{Kind: kind, Message: err.Error(), Offset: -1}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unable to write response")
	}
}
