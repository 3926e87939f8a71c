/*
Package x contains helpers shared by the extensions living under x/...

Only code that is used by more than one extension and stable enough to
depend upon belongs here. Everything else should stay in the extension
package itself.
*/
package x
