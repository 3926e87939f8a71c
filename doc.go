/*
Package lockstep defines the common interfaces that tie the module
together: addresses and conditions identifying principals, key-value
store contracts, the message/handler pair used to process operations,
and the result types those operations return.

Authorization state lives in buckets (see the orm package) on top of a
KVStore. Every operation is a single, bounded state transition handled
by exactly one Handler. The application shell (see the app package)
runs each transition inside a cache wrap, so a failed operation leaves
no partial writes behind.

Authentication is out of scope for this module. Callers arrive with
their identity already established; the x.Authenticator interface is
how that pre-verified identity reaches a handler.
*/
package lockstep
