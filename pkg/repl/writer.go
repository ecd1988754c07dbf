/*
 * Copyright (c) 2023-2024, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Printable is anything that can be rendered as a table.
type Printable interface {
	Headers() []string
	Values() [][]string
}

type OutputWriter interface {
	Write(v Printable) error
}

type CSVWriter struct {
	w io.Writer
}

type TextWriter struct {
	w io.Writer
}

type JSONWriter struct {
	w io.Writer
}

var Formats = []string{"text", "csv", "json"}

func NewOutputWriter(w io.Writer, t string) OutputWriter {
	switch t {
	case "csv":
		return CSVWriter{
			w,
		}
	case "json":
		return JSONWriter{
			w,
		}
	}
	return TextWriter{
		w,
	}
}

// ValidFormat reports whether t names one of Formats.
func ValidFormat(t string) bool {
	for _, f := range Formats {
		if f == t {
			return true
		}
	}
	return false
}

func (w CSVWriter) Write(v Printable) error {
	wtr := csv.NewWriter(w.w)
	if err := wtr.Write(v.Headers()); err != nil {
		return errors.Wrap(err, "unable to write csv header")
	}
	return wtr.WriteAll(v.Values())
}

func (w TextWriter) Write(v Printable) error {
	headers := []any{}
	for _, h := range v.Headers() {
		headers = append(headers, h)
	}

	table := tablewriter.NewWriter(w.w)
	table.Header(headers...)
	if err := table.Bulk(v.Values()); err != nil {
		return errors.Wrap(err, "unable to build table")
	}
	return table.Render()
}

// Write encodes one object per row, keyed by header.
func (w JSONWriter) Write(v Printable) error {
	headers := v.Headers()
	rows := []map[string]string{}

	for _, values := range v.Values() {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			}
		}
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w.w)
	return enc.Encode(rows)
}
