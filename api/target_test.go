/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import "testing"

func TestParseTarget(t *testing.T) {
	tt := []struct {
		test   string
		target string
		addr   string
		local  bool
	}{
		{
			"Test empty target",
			"",
			"local",
			true,
		},
		{
			"Test local",
			"local",
			"local",
			true,
		},
		{
			"Test http host",
			"http://localhost:8080",
			"http://localhost:8080",
			false,
		},
		{
			"Test https host drops path",
			"https://compile.example.com/compile",
			"https://compile.example.com",
			false,
		},
	}

	for _, bad := range []string{"tcp://localhost:8080", "http://", "./local"} {
		if _, err := ParseTarget(bad); err == nil {
			t.Errorf("%s should have caused an error", bad)
		}
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			target, err := ParseTarget(tc.target)
			if err != nil {
				t.Fatal(err)
			}
			if target.Address != tc.addr {
				t.Errorf("Address mismatch: %s != %s", target.Address, tc.addr)
			}
			if target.Local != tc.local {
				t.Error("local mismatch")
			}
		})
	}
}
