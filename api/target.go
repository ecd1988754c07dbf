/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package ninecc

import (
	"net/url"

	"github.com/pkg/errors"
)

type Target struct {
	Local   bool
	Address string
}

// ParseTarget takes a target string and parses it into the parts a client
// needs to compile somewhere. It will only return an error if the scheme
// is not "http" or "https", or a remote target has no host.
//
// Formats:
//
//	local
//	http://<host:port>
//	https://<host:port>
func ParseTarget(target string) (Target, error) {
	if target == "" || target == "local" {
		return Target{Local: true, Address: "local"}, nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return Target{}, errors.Wrapf(err, "invalid target %s", target)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return Target{}, errors.Errorf("target %s has no host", target)
		}
		return Target{Address: u.Scheme + "://" + u.Host}, nil
	}

	return Target{}, errors.Errorf("unrecognized scheme: %s", u.Scheme)
}
