/*
Package errors implements categorized errors for the whole module.

Each failure wraps exactly one registered root error. Root errors carry
a unique numeric code, so a failure can be matched against its kind
without string comparison and reported to a client in a safe way.
Extensions claim their own code range and register domain specific
roots next to the generic ones declared here.

Use Wrap/Wrapf to add context while travelling up the call stack. A
stack trace is recorded once, at the deepest wrap.
*/
package errors
