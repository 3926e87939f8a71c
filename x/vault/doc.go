/*
Package vault implements M-of-N collective authorization for
dispatching an arbitrary downstream action.

A wallet holds a fixed set of owners and a threshold. Any owner may
propose a transaction against the wallet; other owners approve it, and
once the number of distinct approvals reaches the threshold anyone may
trigger execution. Execution hands the proposal's opaque instruction to
an injected Executor and marks the proposal executed, exactly once.

Replay of a proposal is prevented by a bounded per-wallet nonce
history: the nonce is reserved when the proposal is created, and stays
unusable until enough newer nonces push it out of the history.

The package does not verify signatures. Callers arrive through the
x.Authenticator contract with their conditions already established.
*/
package vault
