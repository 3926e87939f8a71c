package vault

import (
	amino "github.com/tendermint/go-amino"
)

// cdc serializes all models and messages of this package. Only
// exported fields are persisted, which lets records carry derived,
// lazily built lookup structures in unexported fields.
var cdc = amino.NewCodec()
