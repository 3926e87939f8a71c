package main

import (
	"encoding/hex"
	"strings"

	"github.com/lockstep-io/lockstep"
	"github.com/lockstep-io/lockstep/errors"
	"github.com/lockstep-io/lockstep/x/vault"
)

// parseCondition reads the ext/type/HEXDATA format used on the command
// line, the same rendering Condition.String produces.
func parseCondition(raw string) (lockstep.Condition, error) {
	chunks := strings.Split(raw, "/")
	if len(chunks) != 3 {
		return nil, errors.Wrap(errors.ErrInput, "want ext/type/HEXDATA")
	}
	data, err := hex.DecodeString(chunks[2])
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "malformed condition data")
	}
	c := lockstep.NewCondition(chunks[0], chunks[1], data)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// parseAddress reads a hex encoded address.
func parseAddress(raw string) (lockstep.Address, error) {
	bz, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "malformed hex")
	}
	addr := lockstep.Address(bz)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// parseAddresses reads many hex encoded addresses.
func parseAddresses(raw []string) ([]lockstep.Address, error) {
	addrs := make([]lockstep.Address, 0, len(raw))
	for _, r := range raw {
		addr, err := parseAddress(r)
		if err != nil {
			return nil, errors.Wrapf(err, "address %q", r)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// parseAccount reads the HEXADDR[:signer][:writable] format of an
// instruction account.
func parseAccount(raw string) (vault.AccountMeta, error) {
	chunks := strings.Split(raw, ":")
	addr, err := parseAddress(chunks[0])
	if err != nil {
		return vault.AccountMeta{}, err
	}
	acct := vault.AccountMeta{Address: addr}
	for _, flag := range chunks[1:] {
		switch flag {
		case "signer":
			acct.Signer = true
		case "writable":
			acct.Writable = true
		default:
			return vault.AccountMeta{}, errors.Wrapf(errors.ErrInput, "unknown account flag %q", flag)
		}
	}
	return acct, nil
}

// parseKey reads a hex encoded record key.
func parseKey(raw string) ([]byte, error) {
	bz, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "malformed hex key")
	}
	if len(bz) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	return bz, nil
}
